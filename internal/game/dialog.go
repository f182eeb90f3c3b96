//go:build !js

package game

import (
	"errors"

	"github.com/ncruces/zenity"
)

// selectConfigFile asks for a YAML config. A cancelled dialog returns an
// empty path and no error.
func selectConfigFile() (string, error) {
	path, err := zenity.SelectFile(
		zenity.Title("Open Backdrop Config"),
		zenity.FileFilters{{
			Name:     "YAML",
			Patterns: []string{"*.yaml", "*.yml"},
		}},
	)
	if errors.Is(err, zenity.ErrCanceled) {
		return "", nil
	}
	return path, err
}
