package outwriter

import (
	"fmt"
	"path/filepath"

	"github.com/huangsam/likeplot/internal/contract"
	"github.com/huangsam/likeplot/schema"
)

// LogRunHeader prints a one-line header before a table.
// Machine readable outputs get no header.
func LogRunHeader(kind schema.ChartKind, source string, cfg *contract.Config) {
	if cfg.Output != schema.TextOut || cfg.OutputFile != "" {
		return
	}
	fmt.Printf("Chart: %s (Source: %s)\n", kind, filepath.Base(source))
}
