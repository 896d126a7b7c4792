package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrDecode reports that a byte stream is not decodable audio.
var ErrDecode = errors.New("decode_error")

const wavHeaderSize = 44

// Duration returns the play length of a PCM WAV byte stream in seconds.
// Non-WAV or truncated input fails with ErrDecode.
func Duration(data []byte) (float64, error) {
	if err := validateWAV(data); err != nil {
		return 0, err
	}

	sampleRate := binary.LittleEndian.Uint32(data[24:28])
	if sampleRate == 0 {
		return 0, fmt.Errorf("%w: invalid sample rate 0", ErrDecode)
	}

	numChannels := binary.LittleEndian.Uint16(data[22:24])
	bitsPerSample := binary.LittleEndian.Uint16(data[34:36])
	if numChannels == 0 || bitsPerSample == 0 || bitsPerSample%8 != 0 {
		return 0, fmt.Errorf("%w: invalid format block", ErrDecode)
	}

	dataSize := binary.LittleEndian.Uint32(data[40:44])
	bytesPerFrame := uint32(numChannels) * uint32(bitsPerSample) / 8

	frames := dataSize / bytesPerFrame
	return float64(frames) / float64(sampleRate), nil
}

func validateWAV(data []byte) error {
	if len(data) < wavHeaderSize {
		return fmt.Errorf("%w: need at least %d bytes, got %d", ErrDecode, wavHeaderSize, len(data))
	}
	if string(data[0:4]) != "RIFF" {
		return fmt.Errorf("%w: missing RIFF header", ErrDecode)
	}
	if string(data[8:12]) != "WAVE" {
		return fmt.Errorf("%w: missing WAVE format", ErrDecode)
	}
	if string(data[12:16]) != "fmt " {
		return fmt.Errorf("%w: missing fmt chunk", ErrDecode)
	}
	if string(data[36:40]) != "data" {
		return fmt.Errorf("%w: missing data chunk", ErrDecode)
	}
	return nil
}
