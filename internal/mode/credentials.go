package mode

// credentialCharset is the character wheel for credential entry. The
// rotary cycles through it; holds append, delete, and commit.
const credentialCharset = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"-_.!@#$%&* "

type CredentialField int

const (
	FieldSSID CredentialField = iota
	FieldPassphrase
)

func (f CredentialField) String() string {
	if f == FieldPassphrase {
		return "passphrase"
	}
	return "ssid"
}

// CredentialBuffer is the transient two-field editor for WiFi setup.
// The SSID is committed first; committing the passphrase completes the
// entry.
type CredentialBuffer struct {
	Field    CredentialField
	Value    string
	CharIdx  int
	ssidDone string
}

func (b *CredentialBuffer) Reset() {
	*b = CredentialBuffer{}
}

// Selected is the character the wheel currently points at.
func (b *CredentialBuffer) Selected() byte {
	return credentialCharset[b.CharIdx]
}

// Cycle moves the character wheel, wrapping at both ends.
func (b *CredentialBuffer) Cycle(steps int) {
	n := len(credentialCharset)
	b.CharIdx = ((b.CharIdx+steps)%n + n) % n
}

// Append adds the selected character to the field being edited.
func (b *CredentialBuffer) Append() {
	b.Value += string(b.Selected())
}

// Backspace removes the last character, if any.
func (b *CredentialBuffer) Backspace() {
	if len(b.Value) > 0 {
		b.Value = b.Value[:len(b.Value)-1]
	}
}

// Commit finishes the current field. Committing the SSID moves on to the
// passphrase and returns done=false; committing the passphrase returns
// the completed pair.
func (b *CredentialBuffer) Commit() (*CredentialCommit, bool) {
	if b.Field == FieldSSID {
		b.ssidDone = b.Value
		b.Field = FieldPassphrase
		b.Value = ""
		b.CharIdx = 0
		return nil, false
	}
	return &CredentialCommit{SSID: b.ssidDone, Passphrase: b.Value}, true
}
