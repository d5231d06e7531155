package filesystem

import "fmt"

const (
	invalidTraversalErrorFormat = "invalid traversal to %q from %q: %s"

	reasonAscendPastRoot     = "cannot ascend above the root directory"
	reasonListingOutsideRoot = "listing issued before entering the root directory"
)

// InvalidTraversalError reports a command that would move the cursor outside the tree.
type InvalidTraversalError struct {
	Target    string
	Directory string
	Reason    string
}

func (invalidTraversalError *InvalidTraversalError) Error() string {
	return fmt.Sprintf(invalidTraversalErrorFormat, invalidTraversalError.Target, invalidTraversalError.Directory, invalidTraversalError.Reason)
}
