package observe

import "errors"

// ErrNotAttached is returned by Subject.Detach when the observer is not
// currently in the registry. It signals a caller logic error (detaching
// something that was never attached, or a double detach); the registry is
// left unchanged.
var ErrNotAttached = errors.New("observe: observer not attached")
