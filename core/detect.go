package core

import (
	"fmt"

	apperrors "github.com/Skryldev/gdimage/errors"
	"github.com/Skryldev/gdimage/utils"
)

// DetectFormat identifies the format of an encoded image from its leading bytes.
func DetectFormat(data []byte) (Format, error) {
	f := Format(utils.DetectFormat(data))
	if f == FormatUnknown {
		return FormatUnknown, apperrors.New(apperrors.CategoryInput, "format.detect",
			fmt.Errorf("%w: unrecognised signature", apperrors.ErrUnsupportedFormat))
	}
	return f, nil
}
