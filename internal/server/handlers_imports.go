package server

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/jordanm/strengths-importer/internal/extract"
	"github.com/jordanm/strengths-importer/internal/importer"
	"github.com/jordanm/strengths-importer/internal/ingestion"
)

// handleCreateImport handles POST /imports: a multipart upload with a "file"
// part and a "mode" form field (preview or commit, preview when absent).
// Container-level failures (unreadable file, no recognizable header row,
// unknown mode) reject the whole request with 400 and no partial results;
// everything past that point always answers 200 with the full per-row
// breakdown, failures included.
func (s *Server) handleCreateImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to parse multipart form: "+err.Error())
		return
	}

	mode, err := parseMode(r.FormValue("mode"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "missing file upload: expected multipart field 'file'")
		return
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read uploaded file: "+err.Error())
		return
	}

	batch, err := s.buildBatch(header.Filename, data, mode)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	report := s.imp.Run(r.Context(), *batch)
	s.jsonResponse(w, http.StatusOK, report)
}

// parseMode validates the mode form field. Preview is the default: nobody
// writes to the directory by forgetting a flag.
func parseMode(raw string) (importer.Mode, error) {
	switch raw {
	case "", string(importer.ModePreview):
		return importer.ModePreview, nil
	case string(importer.ModeCommit):
		return importer.ModeCommit, nil
	default:
		return "", &ErrUnknownMode{Mode: raw}
	}
}

// buildBatch turns raw upload bytes into candidate profiles. Spreadsheets
// produce one profile per data row; every other readable container is a
// single-person report producing exactly one profile.
func (s *Server) buildBatch(fileName string, data []byte, mode importer.Mode) (*importer.Batch, error) {
	var profiles []*extract.CandidateProfile

	switch kind := ingestion.DetectKind(data); kind {
	case ingestion.KindXLSX:
		var err error
		profiles, err = s.spreadsheets.ExtractWorkbook(data)
		if err != nil {
			if !errors.Is(err, extract.ErrNoHeaderRow) {
				// Corrupt or empty workbook: same class of failure as an
				// unparseable PDF.
				err = &ingestion.UnreadableError{FileName: fileName, Kind: kind, Cause: err}
			}
			return nil, err
		}
	default:
		text, err := ingestion.ExtractText(fileName, data)
		if err != nil {
			return nil, err
		}
		profile := s.documents.Extract(text)
		profiles = []*extract.CandidateProfile{profile}
	}

	log.Printf("[import] %s: extracted %d candidate profile(s), mode=%s", fileName, len(profiles), mode)

	return &importer.Batch{
		FileName: fileName,
		Mode:     mode,
		Profiles: profiles,
	}, nil
}

// handleListThemes handles GET /themes: the full reference catalog, so
// clients can render theme and domain names without shipping their own copy.
func (s *Server) handleListThemes(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"domains": s.catalog.Domains(),
		"themes":  s.catalog.Themes(),
	})
}

// isContainerError reports whether an extraction failure is a whole-file
// problem rather than a row-level one.
func isContainerError(err error) bool {
	var unreadable *ingestion.UnreadableError
	return errors.As(err, &unreadable) || errors.Is(err, extract.ErrNoHeaderRow)
}
