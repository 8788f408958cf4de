package membership

import "errors"

var (
	ErrNotAMember       = errors.New("slide is not in queue")
	ErrAlreadyAMember   = errors.New("slide is already in queue")
	ErrWouldOrphanSlide = errors.New("slide would be left in no queue, delete the slide instead")
	ErrInvalidPosition  = errors.New("invalid queue position")
	ErrIncompleteDetach = errors.New("slide belongs to queues that were not provided")
)
