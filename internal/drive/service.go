// Package drive fetches dataset snapshot CSVs from a shared Google Drive
// folder. Planners drop the four export files there; the ingest service
// pulls them down for loading.
package drive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2/google"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

type Service struct {
	srv *gdrive.Service
}

// NewService builds a read-only Drive client from service-account
// credentials JSON.
func NewService(credentialsJSON string) (*Service, error) {
	config, err := google.JWTConfigFromJSON(
		[]byte(credentialsJSON),
		gdrive.DriveReadonlyScope,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to parse drive credentials: %w", err)
	}

	client := config.Client(context.Background())

	srv, err := gdrive.NewService(context.Background(), option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create drive client: %w", err)
	}

	return &Service{srv: srv}, nil
}

// File is the subset of Drive file metadata the ingest flow needs.
type File struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	Size         int64  `json:"size,string,omitempty"`
}

// ListCSVFiles lists the CSV files in a folder. An empty folder ID means
// the Drive root.
func (s *Service) ListCSVFiles(folderID string) ([]*File, error) {
	if folderID == "" {
		folderID = "root"
	}

	result, err := s.srv.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed=false", folderID)).
		Fields("files(id, name, mimeType, modifiedTime, size)").
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list drive files: %w", err)
	}

	var files []*File
	for _, f := range result.Files {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			continue
		}
		files = append(files, &File{
			ID:           f.Id,
			Name:         f.Name,
			MimeType:     f.MimeType,
			ModifiedTime: f.ModifiedTime,
			Size:         f.Size,
		})
	}

	return files, nil
}

// DownloadFile streams a file's content to w.
func (s *Service) DownloadFile(fileID string, w io.Writer) error {
	resp, err := s.srv.Files.Get(fileID).Download()
	if err != nil {
		return fmt.Errorf("unable to download drive file: %w", err)
	}
	defer resp.Body.Close()

	_, err = io.Copy(w, resp.Body)
	return err
}

// PullSnapshot downloads every dataset CSV in the folder into destDir and
// returns the local paths of the files written.
func (s *Service) PullSnapshot(folderID, destDir string) ([]string, error) {
	files, err := s.ListCSVFiles(folderID)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CSV files found in drive folder %s", folderID)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create destination directory: %w", err)
	}

	var paths []string
	for _, f := range files {
		dest := filepath.Join(destDir, f.Name)
		out, err := os.Create(dest)
		if err != nil {
			return nil, fmt.Errorf("unable to create %s: %w", dest, err)
		}

		if err := s.DownloadFile(f.ID, out); err != nil {
			out.Close()
			os.Remove(dest)
			return nil, err
		}
		if err := out.Close(); err != nil {
			return nil, fmt.Errorf("unable to finish writing %s: %w", dest, err)
		}

		paths = append(paths, dest)
	}

	return paths, nil
}
