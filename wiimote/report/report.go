// Package report decodes raw Wii Remote HID input reports into structured
// events. Decoding is pure: a report either classifies as a button event, a
// battery (status) event, or is ignored. Callers decide how to surface
// ignored reports.
package report

// StatusReportTag is the report ID the controller uses for status replies.
// A status report carries the battery level in its second byte. Every other
// report ID is treated as a standard button report.
const StatusReportTag = 0x20

// StatusRequest is the outbound control payload that asks the controller to
// send a status report.
var StatusRequest = [2]byte{0x15, 0x00}

// Button bit masks for byte 1 of a button report.
const (
	MaskDPadRight = 0x01
	MaskDPadLeft  = 0x02
	MaskDPadDown  = 0x04
	MaskDPadUp    = 0x08
	MaskPlus      = 0x10
	MaskMinus     = 0x20
	MaskHome      = 0x40
)

// Button bit masks for byte 2 of a button report.
const (
	MaskA   = 0x01
	MaskB   = 0x02
	MaskOne = 0x04
	MaskTwo = 0x08
)

// Kind classifies a decoded report.
type Kind int

const (
	// KindIgnored marks a report too short to decode. Ignored reports are
	// dropped, not errors.
	KindIgnored Kind = iota
	// KindButtons marks a standard button report.
	KindButtons
	// KindBattery marks a status report carrying a battery level.
	KindBattery
)

// ButtonEvent is the decoded button state of a single report.
type ButtonEvent struct {
	Tag byte // originating report ID

	DPadRight bool
	DPadLeft  bool
	DPadDown  bool
	DPadUp    bool
	Plus      bool
	Minus     bool
	Home      bool
	A         bool
	B         bool
	One       bool
	Two       bool
}

// BatteryEvent is the decoded battery level of a status report.
type BatteryEvent struct {
	Level uint8
}

// Decoded is the tagged result of Decode. Only the field matching Kind is
// meaningful.
type Decoded struct {
	Kind    Kind
	Buttons ButtonEvent
	Battery BatteryEvent
}

// Decode classifies a raw report. The input is not retained.
//
// A status report shorter than 2 bytes, a button report shorter than 3
// bytes, and an empty report all decode to KindIgnored.
func Decode(raw []byte) Decoded {
	if len(raw) == 0 {
		return Decoded{Kind: KindIgnored}
	}
	if raw[0] == StatusReportTag {
		if len(raw) < 2 {
			return Decoded{Kind: KindIgnored}
		}
		return Decoded{Kind: KindBattery, Battery: BatteryEvent{Level: raw[1]}}
	}
	if len(raw) < 3 {
		return Decoded{Kind: KindIgnored}
	}
	b1, b2 := raw[1], raw[2]
	return Decoded{
		Kind: KindButtons,
		Buttons: ButtonEvent{
			Tag:       raw[0],
			DPadRight: b1&MaskDPadRight != 0,
			DPadLeft:  b1&MaskDPadLeft != 0,
			DPadDown:  b1&MaskDPadDown != 0,
			DPadUp:    b1&MaskDPadUp != 0,
			Plus:      b1&MaskPlus != 0,
			Minus:     b1&MaskMinus != 0,
			Home:      b1&MaskHome != 0,
			A:         b2&MaskA != 0,
			B:         b2&MaskB != 0,
			One:       b2&MaskOne != 0,
			Two:       b2&MaskTwo != 0,
		},
	}
}
