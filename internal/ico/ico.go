// Package ico reads and writes the Windows ICO container: an ICONDIR
// header, one ICONDIRENTRY per frame, then the frame payloads. Frames are
// stored as PNG, which every browser and Windows Vista+ accepts.
package ico

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image/png"
	"io"
)

const (
	headerSize = 6
	entrySize  = 16
	typeIcon   = 1
	maxDim     = 256
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// IconDir is the on-disk container header.
type IconDir struct {
	Reserved uint16 // must be 0
	Type     uint16 // 1 for ICO, 2 for CUR
	Count    uint16
}

// IconDirEntry is the on-disk directory record of one frame.
type IconDirEntry struct {
	Width       uint8 // 0 means 256
	Height      uint8 // 0 means 256
	ColorCount  uint8 // 0 for truecolor
	Reserved    uint8
	ColorPlanes uint16
	BitCount    uint16
	Size        uint32
	Offset      uint32
}

// Dims returns the entry's declared pixel size, decoding the 0 == 256 rule.
func (e IconDirEntry) Dims() (int, int) {
	w, h := int(e.Width), int(e.Height)
	if w == 0 {
		w = maxDim
	}
	if h == 0 {
		h = maxDim
	}
	return w, h
}

// Frame is one encoded image to be bundled.
type Frame struct {
	Width  int
	Height int
	Data   []byte // PNG payload
}

// Encode writes frames as a single multi-resolution ICO.
func Encode(w io.Writer, frames []Frame) error {
	if len(frames) == 0 {
		return errors.New("ico: no frames")
	}
	if len(frames) > 0xffff {
		return fmt.Errorf("ico: too many frames (%d)", len(frames))
	}

	entries := make([]IconDirEntry, len(frames))
	offset := uint32(headerSize + entrySize*len(frames))
	for i, f := range frames {
		if f.Width <= 0 || f.Height <= 0 || f.Width > maxDim || f.Height > maxDim {
			return fmt.Errorf("ico: frame %d: size %dx%d out of range 1-%d", i, f.Width, f.Height, maxDim)
		}
		entries[i] = IconDirEntry{
			Width:       uint8(f.Width % maxDim),
			Height:      uint8(f.Height % maxDim),
			ColorPlanes: 1,
			BitCount:    32,
			Size:        uint32(len(f.Data)),
			Offset:      offset,
		}
		offset += uint32(len(f.Data))
	}

	buf := bytes.NewBuffer(make([]byte, 0, offset))
	hdr := IconDir{Type: typeIcon, Count: uint16(len(frames))}
	if err := binary.Write(buf, binary.LittleEndian, hdr); err != nil {
		return fmt.Errorf("write ICONDIR: %w", err)
	}
	for i := range entries {
		if err := binary.Write(buf, binary.LittleEndian, entries[i]); err != nil {
			return fmt.Errorf("write ICONDIRENTRY %d: %w", i, err)
		}
	}
	for _, f := range frames {
		buf.Write(f.Data)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// ReadDir parses the header and directory of an ICO file held in data.
func ReadDir(data []byte) ([]IconDirEntry, error) {
	r := bytes.NewReader(data)
	var hdr IconDir
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("ico: read header: %w", err)
	}
	if hdr.Reserved != 0 || hdr.Type != typeIcon {
		return nil, fmt.Errorf("ico: bad header (reserved=%d type=%d)", hdr.Reserved, hdr.Type)
	}
	entries := make([]IconDirEntry, hdr.Count)
	if err := binary.Read(r, binary.LittleEndian, entries); err != nil {
		return nil, fmt.Errorf("ico: read directory: %w", err)
	}
	for i, e := range entries {
		end := uint64(e.Offset) + uint64(e.Size)
		if end > uint64(len(data)) {
			return nil, fmt.Errorf("ico: entry %d: payload [%d,%d) past end of file (%d)", i, e.Offset, end, len(data))
		}
	}
	return entries, nil
}

// Payload returns the raw bytes of entry e.
func Payload(data []byte, e IconDirEntry) []byte {
	return data[e.Offset : e.Offset+e.Size]
}

// FrameSize decodes the dimensions embedded in a frame payload. Only PNG
// payloads are understood; BMP frames report an error.
func FrameSize(payload []byte) (int, int, error) {
	if !bytes.HasPrefix(payload, pngMagic) {
		return 0, 0, errors.New("ico: frame is not PNG-encoded")
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(payload))
	if err != nil {
		return 0, 0, fmt.Errorf("ico: decode frame: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
