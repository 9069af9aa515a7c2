package panel

import "sync"

// VirtualPin is a software pin used by the emulator. It idles high.
type VirtualPin struct {
	lock  sync.Mutex
	level bool
}

func NewVirtualPin() *VirtualPin {
	return &VirtualPin{level: true}
}

func (v *VirtualPin) ConfigureInputPullUp() error {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.level = true
	return nil
}

func (v *VirtualPin) Get() bool {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.level
}

// Press pulls the line low.
func (v *VirtualPin) Press() {
	v.set(false)
}

// Release lets the line go back high.
func (v *VirtualPin) Release() {
	v.set(true)
}

func (v *VirtualPin) set(level bool) {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.level = level
}
