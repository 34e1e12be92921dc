package cli

import (
	"fmt"
	"os"
)

const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Red   = "\033[31m"
)

// Enabled reports whether ANSI styling should be emitted (https://no-color.org/).
func Enabled() bool {
	_, noColor := os.LookupEnv("NO_COLOR")
	return !noColor
}

// Stylize wraps text in the given escape code
func Stylize(text string, code string) string {
	if !Enabled() {
		return text
	}
	return fmt.Sprintf("%s%s%s", code, text, Reset)
}

func CrossMark() string {
	return Stylize("✘", Red)
}
