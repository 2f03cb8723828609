package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bilgisen/newscast/internal/models"
)

// Storage persists run reports as JSON files under a dated directory tree.
type Storage struct {
	basePath string
	mu       sync.RWMutex
}

func NewStorage(basePath string) (*Storage, error) {
	if err := os.MkdirAll(filepath.Join(basePath, "runs"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &Storage{basePath: basePath}, nil
}

// SaveReport writes a run report to disk and records its file path.
func (s *Storage) SaveReport(ctx context.Context, report *models.RunReport) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	datePath := filepath.Join(s.basePath, "runs", report.StartedAt.UTC().Format("2006/01/02"))
	if err := os.MkdirAll(datePath, 0755); err != nil {
		return fmt.Errorf("failed to create date directory: %w", err)
	}

	filename := fmt.Sprintf("%d_%s.json", report.StartedAt.Unix(), report.ID)
	filePath := filepath.Join(datePath, filename)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write run report: %w", err)
	}

	report.FilePath = filePath
	return nil
}

// GetReportByID retrieves a run report by its ID.
func (s *Storage) GetReportByID(ctx context.Context, id string) (*models.RunReport, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.reportFiles()
	if err != nil {
		return nil, err
	}

	for _, path := range files {
		if !strings.Contains(filepath.Base(path), id) {
			continue
		}
		report, err := readReport(path)
		if err != nil {
			return nil, err
		}
		return report, nil
	}

	return nil, fmt.Errorf("run report %s not found", id)
}

// ListReports retrieves a paginated list of run reports, newest first, along
// with the total number of reports on disk.
func (s *Storage) ListReports(ctx context.Context, page, pageSize int) ([]*models.RunReport, int, error) {
	select {
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.reportFiles()
	if err != nil {
		return nil, 0, err
	}
	total := len(files)

	// Sort by modification time, newest first.
	sort.Slice(files, func(i, j int) bool {
		info1, _ := os.Stat(files[i])
		info2, _ := os.Stat(files[j])
		if info1 == nil || info2 == nil {
			return files[i] > files[j]
		}
		return info1.ModTime().After(info2.ModTime())
	})

	start := (page - 1) * pageSize
	if start >= total {
		return []*models.RunReport{}, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	reports := make([]*models.RunReport, 0, end-start)
	for _, path := range files[start:end] {
		report, err := readReport(path)
		if err != nil {
			return nil, 0, err
		}
		reports = append(reports, report)
	}

	return reports, total, nil
}

func (s *Storage) reportFiles() ([]string, error) {
	var files []string
	root := filepath.Join(s.basePath, "runs")
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(info.Name(), ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking the report path: %w", err)
	}
	return files, nil
}

func readReport(path string) (*models.RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading report %s: %w", path, err)
	}

	var report models.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("error unmarshaling report %s: %w", path, err)
	}
	report.FilePath = path
	return &report, nil
}

// NewReportID builds a unique id for a run started at the given instant.
func NewReportID(start time.Time) string {
	return fmt.Sprintf("%d", start.UnixNano())
}
