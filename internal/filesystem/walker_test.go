package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deadwood-scan/deadwood/internal/config"
	"github.com/deadwood-scan/deadwood/pkg/models"
	"go.uber.org/zap"
)

// recordingIndex collects hash observations for inspection
type recordingIndex struct {
	identities []string
	paths      []string
}

func (r *recordingIndex) Insert(identity, path string) {
	r.identities = append(r.identities, identity)
	r.paths = append(r.paths, path)
}

// failingHasher simulates unreadable file content
type failingHasher struct{}

func (failingHasher) Identify(path string) (string, bool, error) {
	return "", false, errors.New("content unreadable")
}

func testConfig() *config.Config {
	return &config.Config{
		Extensions: []string{"txt"},
		Exclude:    []string{"node_modules", ".git"},
	}
}

func testBudget() *models.Budget {
	return models.NewBudget(5, 1000, time.Minute)
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("Failed to create test directory %s: %v", path, err)
	}
}

func TestWalker_CleanTree(t *testing.T) {
	tmpDir := t.TempDir()
	mustMkdir(t, filepath.Join(tmpDir, "sub"))
	mustWriteFile(t, filepath.Join(tmpDir, "a.txt"), "alpha")
	mustWriteFile(t, filepath.Join(tmpDir, "sub", "b.txt"), "beta")

	index := &recordingIndex{}
	walker := NewWalker(testConfig(), NewMD5Hasher(), index, zap.NewNop())
	budget := testBudget()

	findings, err := walker.Walk(tmpDir, 0, budget)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("Walk() produced %d findings for a clean tree, want 0: %v", len(findings), findings)
	}
	if len(index.paths) != 2 {
		t.Errorf("Recorded %d hash observations, want 2", len(index.paths))
	}
	if budget.Processed != 3 {
		t.Errorf("Processed = %d, want 3", budget.Processed)
	}
}

func TestWalker_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	emptyPath := filepath.Join(tmpDir, "hollow.txt")
	mustWriteFile(t, emptyPath, "")

	index := &recordingIndex{}
	walker := NewWalker(testConfig(), NewMD5Hasher(), index, zap.NewNop())

	findings, err := walker.Walk(tmpDir, 0, testBudget())
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("Walk() produced %d findings, want 1: %v", len(findings), findings)
	}
	if got, want := findings[0].String(), emptyPath+" (empty file)"; got != want {
		t.Errorf("Finding = %q, want %q", got, want)
	}
	// Zero-size files still enter duplicate grouping
	if len(index.paths) != 1 {
		t.Errorf("Recorded %d hash observations, want 1", len(index.paths))
	}
}

func TestWalker_EmptyDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	emptyDir := filepath.Join(tmpDir, "vacant")
	mustMkdir(t, emptyDir)

	walker := NewWalker(testConfig(), NewMD5Hasher(), &recordingIndex{}, zap.NewNop())

	findings, err := walker.Walk(tmpDir, 0, testBudget())
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("Walk() produced %d findings, want 1: %v", len(findings), findings)
	}
	if got, want := findings[0].String(), emptyDir+" (empty directory)"; got != want {
		t.Errorf("Finding = %q, want %q", got, want)
	}
}

func TestWalker_TraversalOrder(t *testing.T) {
	tmpDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tmpDir, "a.txt"), "")
	mustMkdir(t, filepath.Join(tmpDir, "b"))
	mustWriteFile(t, filepath.Join(tmpDir, "c.txt"), "")

	walker := NewWalker(testConfig(), NewMD5Hasher(), &recordingIndex{}, zap.NewNop())

	findings, err := walker.Walk(tmpDir, 0, testBudget())
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	want := []string{
		filepath.Join(tmpDir, "a.txt") + " (empty file)",
		filepath.Join(tmpDir, "b") + " (empty directory)",
		filepath.Join(tmpDir, "c.txt") + " (empty file)",
	}
	if len(findings) != len(want) {
		t.Fatalf("Walk() produced %d findings, want %d: %v", len(findings), len(want), findings)
	}
	for i, expected := range want {
		if findings[i].String() != expected {
			t.Errorf("Finding[%d] = %q, want %q", i, findings[i].String(), expected)
		}
	}
}

func TestWalker_MaxDepth(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "deeper")
	mustMkdir(t, subDir)
	mustWriteFile(t, filepath.Join(subDir, "hidden.txt"), "")

	index := &recordingIndex{}
	walker := NewWalker(testConfig(), NewMD5Hasher(), index, zap.NewNop())
	budget := models.NewBudget(0, 1000, time.Minute)

	findings, err := walker.Walk(tmpDir, 0, budget)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("Walk() produced %d findings, want 1: %v", len(findings), findings)
	}
	if got, want := findings[0].String(), subDir+" (max depth reached)"; got != want {
		t.Errorf("Finding = %q, want %q", got, want)
	}
	// The subtree below the limit is never entered
	if len(index.paths) != 0 {
		t.Errorf("Recorded %d hash observations, want 0", len(index.paths))
	}
}

func TestWalker_TimeBudget(t *testing.T) {
	tmpDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tmpDir, "a.txt"), "alpha")

	walker := NewWalker(testConfig(), NewMD5Hasher(), &recordingIndex{}, zap.NewNop())
	expired := &models.Budget{
		Start:      time.Now().Add(-time.Minute),
		MaxElapsed: time.Second,
		MaxDepth:   5,
		MaxFiles:   1000,
	}

	findings, err := walker.Walk(tmpDir, 0, expired)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("Walk() produced %d findings, want 1: %v", len(findings), findings)
	}
	if got, want := findings[0].String(), tmpDir+" (execution time limit reached)"; got != want {
		t.Errorf("Finding = %q, want %q", got, want)
	}
	if expired.Processed != 0 {
		t.Errorf("Processed = %d, want 0", expired.Processed)
	}
}

func TestWalker_FileBudgetAtEntry(t *testing.T) {
	tmpDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tmpDir, "a.txt"), "alpha")

	walker := NewWalker(testConfig(), NewMD5Hasher(), &recordingIndex{}, zap.NewNop())
	budget := testBudget()
	budget.Processed = budget.MaxFiles

	findings, err := walker.Walk(tmpDir, 0, budget)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("Walk() produced %d findings, want 1: %v", len(findings), findings)
	}
	if got, want := findings[0].String(), tmpDir+" (max files limit reached)"; got != want {
		t.Errorf("Finding = %q, want %q", got, want)
	}
}

func TestWalker_FileBudgetMidDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tmpDir, "a.txt"), "alpha")
	mustWriteFile(t, filepath.Join(tmpDir, "b.txt"), "beta")
	mustWriteFile(t, filepath.Join(tmpDir, "c.txt"), "gamma")

	index := &recordingIndex{}
	walker := NewWalker(testConfig(), NewMD5Hasher(), index, zap.NewNop())
	budget := models.NewBudget(5, 2, time.Minute)

	findings, err := walker.Walk(tmpDir, 0, budget)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("Walk() produced %d findings, want 1: %v", len(findings), findings)
	}
	if got, want := findings[0].String(), tmpDir+" (max files limit reached during processing)"; got != want {
		t.Errorf("Finding = %q, want %q", got, want)
	}
	// Entries before the limit were still fully processed
	if budget.Processed != 2 {
		t.Errorf("Processed = %d, want 2", budget.Processed)
	}
	if len(index.paths) != 2 {
		t.Errorf("Recorded %d hash observations, want 2", len(index.paths))
	}
}

func TestWalker_DirectoryEntryCap(t *testing.T) {
	tmpDir := t.TempDir()
	for i := 0; i < 150; i++ {
		mustWriteFile(t, filepath.Join(tmpDir, fmt.Sprintf("file-%03d.txt", i)), fmt.Sprintf("content %d", i))
	}

	index := &recordingIndex{}
	walker := NewWalker(testConfig(), NewMD5Hasher(), index, zap.NewNop())
	budget := testBudget()

	findings, err := walker.Walk(tmpDir, 0, budget)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("Walk() produced %d findings, want 1: %v", len(findings), findings)
	}
	if got, want := findings[0].String(), tmpDir+" (limited scan: 100/150 items)"; got != want {
		t.Errorf("Finding = %q, want %q", got, want)
	}
	if budget.Processed != 100 {
		t.Errorf("Processed = %d, want 100", budget.Processed)
	}
	if len(index.paths) != 100 {
		t.Errorf("Recorded %d hash observations, want 100", len(index.paths))
	}
}

func TestWalker_Exclusion(t *testing.T) {
	tmpDir := t.TempDir()
	mustMkdir(t, filepath.Join(tmpDir, "node_modules"))
	mustWriteFile(t, filepath.Join(tmpDir, "node_modules", "stale.txt"), "")
	mustMkdir(t, filepath.Join(tmpDir, "keep"))
	mustWriteFile(t, filepath.Join(tmpDir, "keep", "data.txt"), "payload")

	index := &recordingIndex{}
	walker := NewWalker(testConfig(), NewMD5Hasher(), index, zap.NewNop())

	findings, err := walker.Walk(tmpDir, 0, testBudget())
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("Walk() produced %d findings, want 0: %v", len(findings), findings)
	}
	if len(index.paths) != 1 {
		t.Errorf("Recorded %d hash observations, want 1", len(index.paths))
	}
}

func TestWalker_ShouldExclude(t *testing.T) {
	walker := NewWalker(testConfig(), NewMD5Hasher(), &recordingIndex{}, zap.NewNop())

	tests := []struct {
		name string
		path string
		want bool
	}{
		{
			name: "Marker as a path component",
			path: "/project/node_modules/left-pad",
			want: true,
		},
		{
			name: "Marker inside a longer name",
			path: "/project/my_node_modules_backup/data",
			want: true,
		},
		{
			name: "Dot marker inside a file name",
			path: "/project/archive.github.txt",
			want: true,
		},
		{
			name: "Clean path",
			path: "/project/src/main",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := walker.shouldExclude(tt.path); got != tt.want {
				t.Errorf("shouldExclude(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestWalker_RootMissing(t *testing.T) {
	tmpDir := t.TempDir()
	missing := filepath.Join(tmpDir, "nowhere")

	walker := NewWalker(testConfig(), NewMD5Hasher(), &recordingIndex{}, zap.NewNop())

	findings, err := walker.Walk(missing, 0, testBudget())
	if err == nil {
		t.Fatal("Walk() error = nil for a missing root, want error")
	}
	if want := "directory does not exist: " + missing; err.Error() != want {
		t.Errorf("Walk() error = %q, want %q", err.Error(), want)
	}
	if len(findings) != 0 {
		t.Errorf("Walk() produced %d findings alongside a terminal error, want 0", len(findings))
	}
}

func TestWalker_RootIsFile(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "plain.txt")
	mustWriteFile(t, filePath, "not a directory")

	walker := NewWalker(testConfig(), NewMD5Hasher(), &recordingIndex{}, zap.NewNop())

	findings, err := walker.Walk(filePath, 0, testBudget())
	if err != nil {
		t.Fatalf("Walk() error = %v, listing failures are findings", err)
	}
	if len(findings) != 1 {
		t.Fatalf("Walk() produced %d findings, want 1: %v", len(findings), findings)
	}
	if findings[0].Reason != models.ReasonError {
		t.Errorf("Finding reason = %q, want %q", findings[0].Reason, models.ReasonError)
	}
	if findings[0].Path != filePath {
		t.Errorf("Finding path = %q, want %q", findings[0].Path, filePath)
	}
}

func TestWalker_HasherFailure(t *testing.T) {
	tmpDir := t.TempDir()
	brokenPath := filepath.Join(tmpDir, "broken.txt")
	mustWriteFile(t, brokenPath, "some content")
	mustWriteFile(t, filepath.Join(tmpDir, "skipped.bin"), "other content")

	index := &recordingIndex{}
	walker := NewWalker(testConfig(), failingHasher{}, index, zap.NewNop())

	findings, err := walker.Walk(tmpDir, 0, testBudget())
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("Walk() produced %d findings, want 1: %v", len(findings), findings)
	}
	if got, want := findings[0].String(), brokenPath+" (error: content unreadable)"; got != want {
		t.Errorf("Finding = %q, want %q", got, want)
	}
	if len(index.paths) != 0 {
		t.Errorf("Recorded %d hash observations after failures, want 0", len(index.paths))
	}
}

func TestWalker_ExtensionFilter(t *testing.T) {
	tmpDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tmpDir, "a.bin"), "same bytes")
	mustWriteFile(t, filepath.Join(tmpDir, "b.bin"), "same bytes")

	index := &recordingIndex{}
	walker := NewWalker(testConfig(), NewMD5Hasher(), index, zap.NewNop())

	findings, err := walker.Walk(tmpDir, 0, testBudget())
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("Walk() produced %d findings, want 0: %v", len(findings), findings)
	}
	if len(index.paths) != 0 {
		t.Errorf("Recorded %d hash observations for filtered extensions, want 0", len(index.paths))
	}
}

func TestWalker_DuplicateObservations(t *testing.T) {
	tmpDir := t.TempDir()
	first := filepath.Join(tmpDir, "x.txt")
	second := filepath.Join(tmpDir, "y.txt")
	mustWriteFile(t, first, "identical payload")
	mustWriteFile(t, second, "identical payload")

	index := &recordingIndex{}
	walker := NewWalker(testConfig(), NewMD5Hasher(), index, zap.NewNop())

	if _, err := walker.Walk(tmpDir, 0, testBudget()); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(index.paths) != 2 {
		t.Fatalf("Recorded %d hash observations, want 2", len(index.paths))
	}
	if index.paths[0] != first || index.paths[1] != second {
		t.Errorf("Observation order = %v, want [%s %s]", index.paths, first, second)
	}
	if index.identities[0] != index.identities[1] {
		t.Errorf("Identical content produced different identities: %q vs %q",
			index.identities[0], index.identities[1])
	}
}

func TestGetExtension(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "Simple extension",
			path: "/data/report.txt",
			want: "txt",
		},
		{
			name: "No extension",
			path: "/data/Makefile",
			want: "",
		},
		{
			name: "Compound extension keeps last part",
			path: "/data/archive.tar.gz",
			want: "gz",
		},
		{
			name: "Leading dot name",
			path: "/data/.gitignore",
			want: "gitignore",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExtension(tt.path); got != tt.want {
				t.Errorf("GetExtension(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
