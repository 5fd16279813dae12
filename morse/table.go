package morse

import (
	"strings"
	"unicode"
)

// codeTable maps characters to their international Morse code
var codeTable = map[rune]string{
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..", 'E': ".",
	'F': "..-.", 'G': "--.", 'H': "....", 'I': "..", 'J': ".---",
	'K': "-.-", 'L': ".-..", 'M': "--", 'N': "-.", 'O': "---",
	'P': ".--.", 'Q': "--.-", 'R': ".-.", 'S': "...", 'T': "-",
	'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-", 'Y': "-.--",
	'Z': "--..",
	'0': "-----", '1': ".----", '2': "..---", '3': "...--", '4': "....-",
	'5': ".....", '6': "-....", '7': "--...", '8': "---..", '9': "----.",
	'.': ".-.-.-", ',': "--..--", '?': "..--..", '\'': ".----.",
	'!': "-.-.--", '/': "-..-.", '(': "-.--.", ')': "-.--.-",
	'&': ".-...", ':': "---...", ';': "-.-.-.", '=': "-...-",
	'+': ".-.-.", '-': "-....-", '_': "..--.-", '"': ".-..-.",
	'$': "...-..-", '@': ".--.-.",
}

// Code returns the Morse code for a character, or "" if the character
// has none. Lookup is case-insensitive.
func Code(r rune) string {
	code, ok := codeTable[unicode.ToUpper(r)]
	if !ok {
		return ""
	}
	return code
}

// Encode converts text to a playback pattern. Letters within a word are
// separated by one Gap; words by two (one implicit unit plus two gaps,
// the standard seven-unit word spacing). Characters without a code are
// skipped.
func Encode(text string) Pattern {
	var pattern Pattern
	pendingGaps := 0
	emitted := false

	for _, r := range strings.ToUpper(text) {
		if r == ' ' {
			if emitted {
				pendingGaps = 2
			}
			continue
		}

		code, ok := codeTable[r]
		if !ok {
			continue
		}

		if emitted {
			if pendingGaps == 0 {
				pendingGaps = 1
			}
			for ; pendingGaps > 0; pendingGaps-- {
				pattern = append(pattern, Gap)
			}
		}
		pendingGaps = 0

		for _, c := range code {
			if c == '-' {
				pattern = append(pattern, Dash)
			} else {
				pattern = append(pattern, Dot)
			}
		}
		emitted = true
	}
	return pattern
}
