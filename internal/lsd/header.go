package lsd

import (
	"errors"
	"fmt"

	"github.com/dicebound/lsd2dsl/internal/bitio"
)

// ErrNotLSD is returned when the 8-byte magic does not match "LingVo".
var ErrNotLSD = errors.New("lsd: not an LSD file")

// ErrUnsupportedVersion marks a recognised-but-undispatched LSD version;
// the reader still exposes header metadata but decoder operations fail.
var ErrUnsupportedVersion = errors.New("lsd: unsupported dictionary version")

// Header is the fixed LSD file header, grounded on
// original_source/dictlsd/lsd.h's packed LSDHeader struct.
type Header struct {
	Magic                   [8]byte
	Version                 uint32
	Unk                     uint32
	Checksum                uint32
	EntriesCount            uint32
	AnnotationOffset        uint32
	DictionaryEncoderOffset uint32
	ArticlesOffset          uint32
	PagesOffset             uint32
	Unk1                    uint32
	Unk2                    uint16
	Unk3                    uint16
	SourceLanguage          uint16
	TargetLanguage          uint16
}

func readHeader(br *bitio.BitReader) (Header, error) {
	var h Header
	var buf [8]byte

	readU8 := func() ([8]byte, error) {
		var b [8]byte
		_, err := br.ReadSome(b[:])
		return b, err
	}
	readU32 := func() (uint32, error) {
		var b [4]byte
		if _, err := br.ReadSome(b[:]); err != nil {
			return 0, err
		}
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
	}
	readU16 := func() (uint16, error) {
		var b [2]byte
		if _, err := br.ReadSome(b[:]); err != nil {
			return 0, err
		}
		return uint16(b[0]) | uint16(b[1])<<8, nil
	}

	var err error
	if buf, err = readU8(); err != nil {
		return h, fmt.Errorf("lsd: read magic: %w", err)
	}
	h.Magic = buf
	if h.Version, err = readU32(); err != nil {
		return h, fmt.Errorf("lsd: read version: %w", err)
	}
	if h.Unk, err = readU32(); err != nil {
		return h, err
	}
	if h.Checksum, err = readU32(); err != nil {
		return h, err
	}
	if h.EntriesCount, err = readU32(); err != nil {
		return h, err
	}
	if h.AnnotationOffset, err = readU32(); err != nil {
		return h, err
	}
	if h.DictionaryEncoderOffset, err = readU32(); err != nil {
		return h, err
	}
	if h.ArticlesOffset, err = readU32(); err != nil {
		return h, err
	}
	if h.PagesOffset, err = readU32(); err != nil {
		return h, err
	}
	if h.Unk1, err = readU32(); err != nil {
		return h, err
	}
	if h.Unk2, err = readU16(); err != nil {
		return h, err
	}
	if h.Unk3, err = readU16(); err != nil {
		return h, err
	}
	if h.SourceLanguage, err = readU16(); err != nil {
		return h, err
	}
	if h.TargetLanguage, err = readU16(); err != nil {
		return h, err
	}

	if string(h.Magic[:6]) != "LingVo" {
		return h, ErrNotLSD
	}
	return h, nil
}

// dialectFor returns the DialectDecoder for a supported version, matching
// original_source/dictlsd/DictionaryReader.cpp's exact dispatch table.
// Versions 0x110001/0x120001 are deliberately absent: although spec.md's
// own version table lists them as "User (legacy)", the reference
// constructor's if/else chain never matches them — they are treated as
// unsupported until a sample proves otherwise.
func dialectFor(version uint32) (DialectDecoder, bool) {
	switch version {
	case 0x132001, 0x142001, 0x152001:
		return &UserDecoder{}, true
	case 0x141004:
		return NewSystemDecoder(false), true
	case 0x131001:
		return &UserDecoder{}, true // "legacy" User variant: same decoder, dispatch-only distinction
	case 0x145001, 0x155001:
		return &AbbrevDecoder{}, true
	case 0x151005:
		return NewSystemDecoder(true), true
	default:
		return nil, false
	}
}
