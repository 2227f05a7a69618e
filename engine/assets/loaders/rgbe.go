package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	stdmath "math"
	"strings"
)

var ErrInvalidHDR = errors.New("invalid radiance hdr image")

const (
	maxHeaderLines = 128

	MaxHDRWidth  = 16384
	MaxHDRHeight = 8192
)

// DecodeRGBE reads a Radiance .hdr image into linear RGB floats, row-major,
// top row first. Only the standard "-Y h +X w" orientation is accepted.
func DecodeRGBE(r io.Reader) (int, int, []float32, error) {
	br := bufio.NewReader(r)

	magic, err := br.ReadString('\n')
	if err != nil {
		return 0, 0, nil, fmt.Errorf("%w: %v", ErrInvalidHDR, err)
	}
	magic = strings.TrimSpace(magic)
	if magic != "#?RADIANCE" && magic != "#?RGBE" {
		return 0, 0, nil, fmt.Errorf("%w: bad signature %q", ErrInvalidHDR, magic)
	}

	for i := 0; ; i++ {
		if i > maxHeaderLines {
			return 0, 0, nil, fmt.Errorf("%w: header too long", ErrInvalidHDR)
		}
		line, err := br.ReadString('\n')
		if err != nil {
			return 0, 0, nil, fmt.Errorf("%w: %v", ErrInvalidHDR, err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		if v, ok := strings.CutPrefix(line, "FORMAT="); ok && v != "32-bit_rle_rgbe" {
			return 0, 0, nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidHDR, v)
		}
	}

	res, err := br.ReadString('\n')
	if err != nil {
		return 0, 0, nil, fmt.Errorf("%w: %v", ErrInvalidHDR, err)
	}
	var width, height int
	if _, err := fmt.Sscanf(strings.TrimSpace(res), "-Y %d +X %d", &height, &width); err != nil {
		return 0, 0, nil, fmt.Errorf("%w: resolution %q", ErrInvalidHDR, strings.TrimSpace(res))
	}
	if width <= 0 || height <= 0 {
		return 0, 0, nil, fmt.Errorf("%w: empty image", ErrInvalidHDR)
	}
	if width > MaxHDRWidth || height > MaxHDRHeight {
		return 0, 0, nil, fmt.Errorf("%w: %dx%d exceeds %dx%d", ErrInvalidHDR, width, height, MaxHDRWidth, MaxHDRHeight)
	}

	pixels := make([]float32, width*height*3)
	scanline := make([]byte, width*4)
	for y := 0; y < height; y++ {
		if err := readScanline(br, scanline, width); err != nil {
			return 0, 0, nil, fmt.Errorf("%w: scanline %d: %v", ErrInvalidHDR, y, err)
		}
		row := pixels[y*width*3:]
		for x := 0; x < width; x++ {
			rgbeToFloat(scanline[x*4:x*4+4], row[x*3:x*3+3])
		}
	}
	return width, height, pixels, nil
}

// readScanline fills dst with width RGBE quadruples, either stored flat or
// with the per-channel run length encoding.
func readScanline(br *bufio.Reader, dst []byte, width int) error {
	if width < 8 || width > 0x7fff {
		_, err := io.ReadFull(br, dst)
		return err
	}
	if _, err := io.ReadFull(br, dst[:4]); err != nil {
		return err
	}
	if dst[0] != 2 || dst[1] != 2 || dst[2]&0x80 != 0 {
		_, err := io.ReadFull(br, dst[4:])
		return err
	}
	if int(dst[2])<<8|int(dst[3]) != width {
		return errors.New("scanline width mismatch")
	}

	// Channels are stored one after the other; interleave into dst.
	for c := 0; c < 4; c++ {
		for x := 0; x < width; {
			count, err := br.ReadByte()
			if err != nil {
				return err
			}
			if count > 128 {
				n := int(count - 128)
				if x+n > width {
					return errors.New("run overflows scanline")
				}
				v, err := br.ReadByte()
				if err != nil {
					return err
				}
				for ; n > 0; n-- {
					dst[x*4+c] = v
					x++
				}
				continue
			}
			n := int(count)
			if n == 0 || x+n > width {
				return errors.New("bad literal run")
			}
			for ; n > 0; n-- {
				v, err := br.ReadByte()
				if err != nil {
					return err
				}
				dst[x*4+c] = v
				x++
			}
		}
	}
	return nil
}

func rgbeToFloat(rgbe []byte, out []float32) {
	if rgbe[3] == 0 {
		out[0], out[1], out[2] = 0, 0, 0
		return
	}
	f := float32(stdmath.Ldexp(1, int(rgbe[3])-(128+8)))
	out[0] = float32(rgbe[0]) * f
	out[1] = float32(rgbe[1]) * f
	out[2] = float32(rgbe[2]) * f
}
