package arc

import "fmt"

type constError string

// ErrInvalidCapacity is returned from [New] for a capacity below [MinimumCapacity].
const ErrInvalidCapacity = constError("invalid capacity")

func (errStr constError) Error() string { return string(errStr) }

func capacityError(capacity int) error {
	return fmt.Errorf(
		"%w: must be >=%d but %d was requested",
		ErrInvalidCapacity, MinimumCapacity, capacity)
}
