package augment

import (
	"fmt"
	"regexp"
)

var instructionRowRegexes = map[string]*regexp.Regexp{
	"high_level": regexp.MustCompile(`(?s)<tr><td><em>high_level</em></td><td>.*?</td></tr>`),
	"mid_level":  regexp.MustCompile(`(?s)<tr><td><em>mid_level</em></td><td>.*?</td></tr>`),
	"low_level":  regexp.MustCompile(`(?s)<tr><td><em>low_level</em></td><td>.*?</td></tr>`),
}

// patchInstructionRows replaces the three instruction table rows in a run's
// HTML report with the rewritten text. Rows that do not appear in the
// document are left alone.
func patchInstructionRows(html string, rewrite *InstructionRewrite) string {
	values := map[string]string{
		"high_level": rewrite.HighLevel,
		"mid_level":  rewrite.MidLevel,
		"low_level":  rewrite.LowLevel,
	}
	for level, re := range instructionRowRegexes {
		row := fmt.Sprintf("<tr><td><em>%s</em></td><td>%s</td></tr>", level, values[level])
		html = re.ReplaceAllString(html, row)
	}
	return html
}
