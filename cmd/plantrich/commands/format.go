package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Plantrich-blimp/plantrich-app/internal/report"
)

// ═══════════════════════════════════════════════════════════
// Common Output Utilities
// 모든 커맨드가 동일한 출력 방식(--json 또는 glamour markdown)을 사용
// ═══════════════════════════════════════════════════════════

var stdout io.Writer = os.Stdout

// printResult writes v as JSON with --json, otherwise the rendered markdown
func printResult(v interface{}, markdown func() (string, error)) error {
	if jsonOutput {
		return printJSON(v)
	}

	md, err := markdown()
	if err != nil {
		return err
	}
	return printMarkdown(md)
}

// printJSON writes indented JSON
func printJSON(v interface{}) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printMarkdown renders markdown for the terminal
func printMarkdown(md string) error {
	out, err := report.Render(md, style)
	if err != nil {
		// 렌더링 실패 시 원문 markdown 출력
		fmt.Fprint(stdout, md)
		return nil
	}
	fmt.Fprint(stdout, out)
	return nil
}

// printWarnings lists non-fatal findings after a result
func printWarnings(warnings []string) {
	if jsonOutput || len(warnings) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "⚠️  %s\n", w)
	}
}
