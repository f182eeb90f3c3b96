//go:build js

package game

import "errors"

func selectConfigFile() (string, error) {
	return "", errors.New("loading a config file is not supported in the browser")
}
