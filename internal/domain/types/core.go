package types

// Bit is a classical bit chosen by Alice or observed by Bob. Valid values are 0 and 1.
type Bit int

// Valid reports whether b is 0 or 1.
func (b Bit) Valid() bool { return b == 0 || b == 1 }

// Basis selects the polarisation basis used to prepare or measure a photon.
type Basis int

const (
	// Rectilinear is the + basis.
	Rectilinear Basis = 0
	// Diagonal is the x basis.
	Diagonal Basis = 1
)

// Valid reports whether b is Rectilinear or Diagonal.
func (b Basis) Valid() bool { return b == Rectilinear || b == Diagonal }

// String returns the basis name.
func (b Basis) String() string {
	switch b {
	case Rectilinear:
		return "rectilinear"
	case Diagonal:
		return "diagonal"
	default:
		return "invalid"
	}
}

// Photon is the symbolic state sent over the quantum channel. It carries a
// bit and a basis jointly: 0 and 1 are bits 0/1 prepared rectilinearly,
// 2 and 3 are bits 0/1 prepared diagonally.
type Photon int

// Valid reports whether p is one of the four photon states.
func (p Photon) Valid() bool { return p >= 0 && p <= 3 }

// Basis returns the basis the photon was prepared in.
func (p Photon) Basis() Basis {
	if p >= 2 {
		return Diagonal
	}
	return Rectilinear
}

// Bit returns the bit the photon encodes when read in its own basis.
func (p Photon) Bit() Bit {
	if p >= 2 {
		return Bit(p - 2)
	}
	return Bit(p)
}

// Role is a participant's part in the protocol.
type Role string

const (
	RoleAlice Role = "alice"
	RoleBob   Role = "bob"
	RoleEve   Role = "eve"
)

// String returns the string form of the role.
func (r Role) String() string { return string(r) }

// Phase is the session's position in the protocol.
type Phase string

const (
	PhaseIdle               Phase = "idle"
	PhasePhotonTransmission Phase = "photon_transmission"
	PhaseBasisComparison    Phase = "basis_comparison"
	PhaseKeyGeneration      Phase = "key_generation"
	PhaseMessaging          Phase = "messaging"
)

// String returns the wire name of the phase.
func (p Phase) String() string { return string(p) }
