// Package validation provides common validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/bpo-report/pkg/constants"
)

// SupportedOutputFormats lists the accepted output formats in display order.
var SupportedOutputFormats = []string{
	constants.OutputFormatPretty,
	constants.OutputFormatJSON,
	constants.OutputFormatCSV,
	constants.OutputFormatYAML,
}

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	for _, supported := range SupportedOutputFormats {
		if format == supported {
			return nil
		}
	}
	return fmt.Errorf("expected output format of %s, got %q",
		strings.Join(SupportedOutputFormats, ", "), format)
}
