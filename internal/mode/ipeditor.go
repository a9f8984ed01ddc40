package mode

import (
	"fmt"
	"strconv"
	"strings"
)

// IPEditBuffer is the transient octet editor used while the IP editor
// submode is active. Nothing is committed unless the cursor advances past
// the final octet.
type IPEditBuffer struct {
	Octets [4]int
	Cursor int
}

func (b *IPEditBuffer) Reset() {
	*b = IPEditBuffer{}
}

// Load seeds the buffer from an existing dotted-quad address. Malformed
// input leaves the buffer zeroed; the user is editing from scratch.
func (b *IPEditBuffer) Load(addr string) {
	b.Reset()
	parts := strings.Split(addr, ".")
	if len(parts) != 4 {
		return
	}
	var octets [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return
		}
		octets[i] = n
	}
	b.Octets = octets
}

// Adjust moves the focused octet by the given number of steps, clamped.
func (b *IPEditBuffer) Adjust(steps int) {
	v := b.Octets[b.Cursor] + steps
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	b.Octets[b.Cursor] = v
}

// Advance moves focus to the next octet and reports whether the edit is
// complete (the cursor moved past the last octet).
func (b *IPEditBuffer) Advance() bool {
	if b.Cursor < 3 {
		b.Cursor++
		return false
	}
	return true
}

func (b IPEditBuffer) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", b.Octets[0], b.Octets[1], b.Octets[2], b.Octets[3])
}
