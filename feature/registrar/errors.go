package registrar

import "fmt"

// ReferenceError is returned when a shared object the run depends on is
// missing or could not be ensured. It aborts the run.
type ReferenceError struct {
	Collection string
	Name       string
	Err        error
}

func (e *ReferenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("required %s %q: %v", e.Collection, e.Name, e.Err)
	}
	return fmt.Sprintf("required %s %q was not found", e.Collection, e.Name)
}

func (e *ReferenceError) Unwrap() error { return e.Err }

// ConventionError is returned when a device with a blade device type has a
// name that does not encode its chassis placement.
type ConventionError struct {
	Host string
}

func (e *ConventionError) Error() string {
	return fmt.Sprintf("device %q has a blade device type but its name does not follow the <chassis>b<bay> convention", e.Host)
}

// HierarchyError is returned when the chassis hierarchy cannot be built.
// The message names the device type so the fix is actionable in the
// inventory, not on the host.
type HierarchyError struct {
	DeviceType string
	Detail     string
}

func (e *HierarchyError) Error() string {
	return fmt.Sprintf("chassis hierarchy misconfigured: device type %q %s; set its subdevice role to parent and define its device bays", e.DeviceType, e.Detail)
}
