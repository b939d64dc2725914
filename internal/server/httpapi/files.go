package httpapi

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/akarpovs/contacthub/internal/filex"
)

const maxUploadBytes = 10 << 20 // 10 MiB

type uploadResponse struct {
	Remark string `json:"remark"`
	Code   int    `json:"code"`
	Path   string `json:"path"`
}

func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeErrorStatus(w, http.StatusBadRequest, "no file uploaded")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeErrorStatus(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	if !filex.IsAcceptableImage(header.Filename) {
		s.writeErrorStatus(w, http.StatusBadRequest, "only image file type are acceptable")
		return
	}

	name := filex.GeneratedName(header.Filename)

	dst, err := os.Create(filepath.Join(s.uploadDir, name))
	if err != nil {
		s.logger.Error(r.Context(), "upload create failed", "error", err.Error())
		s.writeErrorStatus(w, http.StatusInternalServerError, "could not store file")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		s.logger.Error(r.Context(), "upload write failed", "error", err.Error())
		s.writeErrorStatus(w, http.StatusInternalServerError, "could not store file")
		return
	}

	s.writeJSON(w, http.StatusOK, uploadResponse{
		Remark: "File uploaded successfully",
		Code:   http.StatusOK,
		Path:   name,
	})
}
