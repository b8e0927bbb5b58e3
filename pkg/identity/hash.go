package identity

import (
	"hash/fnv"
	"math/bits"
	"strings"
	"unicode"
)

// Seeds for the different hash families. A seed only has to keep unrelated
// shapes apart; equal entities must reach the same value regardless.
const (
	hashGlobalType  uint32 = 0x62A3F1D5
	hashTypeName    uint32 = 0x1B873593
	hashElement     uint32 = 0x6B43A9B5
	hashArray       uint32 = 0x2F0E8C41
	hashGenericInst uint32 = 0x5E2D58D8
	hashGenericVar  uint32 = 0x3C6EF372
	hashFnPtr       uint32 = 0x7A1B4C2E
	hashMethodSig   uint32 = 0x4A7D9E11
	hashPropertySig uint32 = 0x1E35A7BD
	hashFieldSig    uint32 = 0x0D9E8F43
	hashLocalSig    uint32 = 0x27D4EB2F
	hashInstMethod  uint32 = 0x165667B1
	hashMember      uint32 = 0x61C88647
	hashMethodSpec  uint32 = 0x4CF5AD43
	hashEvent       uint32 = 0x2545F491
	hashList        uint32 = 0x9E3779B9
)

// mix folds v into h. The rotation makes the combination order-sensitive.
func mix(h, v uint32) uint32 {
	return bits.RotateLeft32(h, 5) + v
}

func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// hashFoldedString hashes s so that strings equal under strings.EqualFold
// hash alike: every rune is replaced by the smallest rune of its case
// folding orbit.
func hashFoldedString(s string) uint32 {
	return hashString(strings.Map(foldRune, s))
}

func foldRune(r rune) rune {
	if r < 0x80 {
		// The Kelvin sign folds onto 'K'/'k', and 'K' is the smallest of the three.
		if 'a' <= r && r <= 'z' {
			return r - ('a' - 'A')
		}
		return r
	}
	lo := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < lo {
			lo = f
		}
	}
	return lo
}

func hashName(s string, caseInsensitive bool) uint32 {
	if caseInsensitive {
		return hashFoldedString(s)
	}
	return hashString(s)
}

func equalNames(a, b string, caseInsensitive bool) bool {
	if caseInsensitive {
		return strings.EqualFold(a, b)
	}
	return a == b
}
