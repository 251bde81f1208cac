//go:build windows

package embedded

import (
	"context"
	"errors"
)

const ptySupported = false

func runPTY(context.Context, []string, string, func(int)) error {
	return errors.New("embedded provider requires a unix pseudo-terminal")
}
