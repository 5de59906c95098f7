package people

import "errors"

// ErrNoViewer is returned by actions that need a signed-in user.
var ErrNoViewer = errors.New("no signed-in user")
