package scanner

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// ScanForMeshes scans root and reports the number of matches on the scanner's
// output. It never returns an error: a failed scan is fatal and exits the
// process through the logger.
func (s *Scanner) ScanForMeshes(ctx context.Context, root string) []string {
	fmt.Fprintln(s.out, "\nScanning for meshes to webify...")

	meshes, err := s.Scan(ctx, root)
	if err != nil {
		s.logger.Fatalf("Failed to scan all directories for meshes: %v", err)
		// Only reached when the logger's ExitFunc does not exit.
		return nil
	}

	countStyle := lipgloss.NewRenderer(s.out).NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)
	fmt.Fprintf(s.out, "Meshes found: %s\n\n", countStyle.Render(strconv.Itoa(len(meshes))))

	return meshes
}
