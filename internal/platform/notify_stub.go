//go:build !linux && !darwin && !windows

package platform

func Send(Message) error { return ErrUnsupported }
