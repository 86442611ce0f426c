package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seyoka/wiimoted/wiimote/report"
)

func TestDecodeIgnored(t *testing.T) {
	cases := []struct {
		name string
		raw  []byte
	}{
		{name: "empty", raw: nil},
		{name: "tag only", raw: []byte{0x01}},
		{name: "button report one data byte", raw: []byte{0x01, 0x11}},
		{name: "status report tag only", raw: []byte{0x20}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			d := report.Decode(tt.raw)
			assert.Equal(t, report.KindIgnored, d.Kind)
		})
	}
}

func TestDecodeBattery(t *testing.T) {
	cases := []struct {
		name  string
		raw   []byte
		level uint8
	}{
		{name: "level 90", raw: []byte{0x20, 0x5A}, level: 90},
		{name: "level 0", raw: []byte{0x20, 0x00}, level: 0},
		{name: "level 255", raw: []byte{0x20, 0xFF}, level: 255},
		{name: "trailing bytes ignored", raw: []byte{0x20, 0x42, 0x99, 0x99}, level: 0x42},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			d := report.Decode(tt.raw)
			assert.Equal(t, report.KindBattery, d.Kind)
			assert.Equal(t, tt.level, d.Battery.Level)
		})
	}
}

func TestDecodeButtons(t *testing.T) {
	cases := []struct {
		name     string
		raw      []byte
		expected report.ButtonEvent
	}{
		{
			name:     "dpad right only",
			raw:      []byte{0x30, 0x01, 0x00},
			expected: report.ButtonEvent{Tag: 0x30, DPadRight: true},
		},
		{
			name:     "no buttons",
			raw:      []byte{0x30, 0x00, 0x00},
			expected: report.ButtonEvent{Tag: 0x30},
		},
		{
			name: "plus dpad-right A",
			raw:  []byte{0x01, 0x11, 0x01},
			expected: report.ButtonEvent{
				Tag: 0x01, DPadRight: true, Plus: true, A: true,
			},
		},
		{
			name: "all byte1 flags",
			raw:  []byte{0x30, 0x7F, 0x00},
			expected: report.ButtonEvent{
				Tag: 0x30, DPadRight: true, DPadLeft: true, DPadDown: true,
				DPadUp: true, Plus: true, Minus: true, Home: true,
			},
		},
		{
			name: "all byte2 flags",
			raw:  []byte{0x30, 0x00, 0x0F},
			expected: report.ButtonEvent{
				Tag: 0x30, A: true, B: true, One: true, Two: true,
			},
		},
		{
			name:     "unmapped high bits are ignored",
			raw:      []byte{0x30, 0x80, 0xF0},
			expected: report.ButtonEvent{Tag: 0x30},
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			d := report.Decode(tt.raw)
			assert.Equal(t, report.KindButtons, d.Kind)
			assert.Equal(t, tt.expected, d.Buttons)
		})
	}
}
