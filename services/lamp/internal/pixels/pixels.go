package pixels

import (
	"moodlamp-go/services/lamp/internal/core"
	"moodlamp-go/types"
)

// Buffer is the frame sent to the strip. Every slot always holds the same colour.
type Buffer struct {
	px [core.StripLen]types.RGBW
}

// Fill writes c into every slot.
func (b *Buffer) Fill(c types.RGBW) {
	for i := range b.px {
		b.px[i] = c
	}
}

// Color returns the colour currently shown by the strip.
func (b *Buffer) Color() types.RGBW { return b.px[0] }

// Flush hands the buffer to the strip. The strip only reads the slice.
func (b *Buffer) Flush(s core.Strip) error {
	return s.Transmit(b.px[:])
}

// Snapshot copies the buffer out.
func (b *Buffer) Snapshot() [core.StripLen]types.RGBW { return b.px }
