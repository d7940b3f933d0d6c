package render

import "fmt"

// FramebufferDescriptor describes an offscreen framebuffer.
type FramebufferDescriptor struct {
	// Label is an optional debug label.
	Label string

	Width, Height int

	// Samples is the number of samples per pixel; 0 and 1 both mean
	// single-sampled.
	Samples int

	// Depth adds a depth attachment.
	Depth bool
}

// ClearMask selects attachments to clear.
type ClearMask uint8

const (
	ClearColor ClearMask = 1 << iota
	ClearDepth
)

// FramebufferStatus reports whether a framebuffer can be rendered to.
type FramebufferStatus uint8

const (
	FramebufferComplete FramebufferStatus = iota
	FramebufferIncompleteAttachment
	FramebufferUnsupported
	FramebufferDestroyed
)

func (s FramebufferStatus) String() string {
	switch s {
	case FramebufferComplete:
		return "Complete"
	case FramebufferIncompleteAttachment:
		return "IncompleteAttachment"
	case FramebufferUnsupported:
		return "Unsupported"
	case FramebufferDestroyed:
		return "Destroyed"
	default:
		return fmt.Sprintf("FramebufferStatus(%d)", uint8(s))
	}
}

// StatusError is returned when drawing into a framebuffer that is not complete.
type StatusError struct {
	Status FramebufferStatus
}

func (e *StatusError) Error() string {
	return "render: framebuffer not complete: " + e.Status.String()
}

// Framebuffer is an offscreen color target with an optional depth buffer.
type Framebuffer interface {
	Width() int
	Height() int

	// Samples returns the number of samples per pixel, at least 1.
	Samples() int

	// Status reports completeness.
	Status() FramebufferStatus

	// Destroy releases the attachments.
	Destroy()
}

// StatusFor computes the completeness of a framebuffer described by desc
// on a device with the given capabilities.
func StatusFor(desc FramebufferDescriptor, caps DeviceCapabilities) FramebufferStatus {
	if desc.Width <= 0 || desc.Height <= 0 {
		return FramebufferIncompleteAttachment
	}
	if caps.MaxTextureSize > 0 && (desc.Width > caps.MaxTextureSize || desc.Height > caps.MaxTextureSize) {
		return FramebufferUnsupported
	}
	s := max(desc.Samples, 1)
	if s > caps.MaxSamples || s&(s-1) != 0 {
		return FramebufferUnsupported
	}
	return FramebufferComplete
}
