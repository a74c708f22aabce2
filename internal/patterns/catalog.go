package patterns

import "strings"

// Catalog returns the pattern rules in registration order. Order matters
// only for tie-breaking: when two patterns explain the same number of error
// positions, the earlier one wins.
func Catalog() []*Pattern {
	return catalog
}

// ByID returns the pattern with the given id, or nil.
func ByID(id string) *Pattern {
	for _, p := range catalog {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// FirstMatching returns the first catalog pattern whose detector finds at
// least one region in word, or nil if no rule applies to the word at all.
func FirstMatching(word string) *Pattern {
	w := lower(word)
	for _, p := range catalog {
		if len(p.Detect(w)) > 0 {
			return p
		}
	}
	return nil
}

var catalog = []*Pattern{
	{
		ID:          "silent-final-e",
		Name:        "Silent final e",
		Explanation: "A silent e at the end of a word makes the vowel before it say its name.",
		Examples: []ExamplePair{
			{Correct: "hope", Wrong: "hop"},
			{Correct: "cube", Wrong: "cub"},
		},
		Quiz:   &Quiz{Question: "Which spelling means wishing for something: 'hope' or 'hop'?", Answer: "hope"},
		Detect: detectSilentFinalE,
	},
	{
		ID:          "doubled-consonant",
		Name:        "Doubled consonants",
		Explanation: "Some words double a consonant to keep the vowel before it short.",
		Examples: []ExamplePair{
			{Correct: "rabbit", Wrong: "rabit"},
			{Correct: "happen", Wrong: "hapen"},
		},
		Quiz:   &Quiz{Question: "How many b's in the animal that hops: 'rabbit'?", Answer: "2"},
		Detect: detectDoubledConsonant,
	},
	{
		ID:          "ie-ei",
		Name:        "ie and ei",
		Explanation: "i before e except after c, or when it sounds like 'ay' as in neighbor.",
		Examples: []ExamplePair{
			{Correct: "friend", Wrong: "freind"},
			{Correct: "receive", Wrong: "recieve"},
		},
		Quiz:   &Quiz{Question: "Which is right: 'friend' or 'freind'?", Answer: "friend"},
		Detect: substringDetector("ie", "ei"),
	},
	{
		ID:          "igh",
		Name:        "igh says long i",
		Explanation: "The letters igh together make the long i sound, with the gh staying silent.",
		Examples: []ExamplePair{
			{Correct: "night", Wrong: "nite"},
			{Correct: "light", Wrong: "lite"},
		},
		Quiz:   &Quiz{Question: "Spell the opposite of day using igh.", Answer: "night"},
		Detect: substringDetector("igh"),
	},
	{
		ID:          "ough",
		Name:        "The ough puzzle",
		Explanation: "The letters ough can make many different sounds, so these words must be memorized.",
		Examples: []ExamplePair{
			{Correct: "enough", Wrong: "enuff"},
			{Correct: "through", Wrong: "threw"},
		},
		Detect: substringDetector("ough"),
	},
	{
		ID:          "tion-sion",
		Name:        "tion and sion endings",
		Explanation: "The 'shun' sound at the end of a word is usually spelled tion or sion.",
		Examples: []ExamplePair{
			{Correct: "station", Wrong: "stashun"},
			{Correct: "mission", Wrong: "mishun"},
		},
		Quiz:   &Quiz{Question: "How does 'station' end: shun or tion?", Answer: "tion"},
		Detect: substringDetector("tion", "sion"),
	},
	{
		ID:          "ck-ending",
		Name:        "ck after a short vowel",
		Explanation: "Right after a short vowel, the k sound is spelled ck.",
		Examples: []ExamplePair{
			{Correct: "duck", Wrong: "duk"},
			{Correct: "black", Wrong: "blak"},
		},
		Detect: substringDetector("ck"),
	},
	{
		ID:          "qu-pair",
		Name:        "q is always followed by u",
		Explanation: "In English, the letter q almost always brings its friend u along.",
		Examples: []ExamplePair{
			{Correct: "queen", Wrong: "qeen"},
			{Correct: "quick", Wrong: "qick"},
		},
		Detect: detectQU,
	},
	{
		ID:          "ph-digraph",
		Name:        "ph says f",
		Explanation: "The letters ph together make the f sound.",
		Examples: []ExamplePair{
			{Correct: "phone", Wrong: "fone"},
			{Correct: "elephant", Wrong: "elefant"},
		},
		Detect: substringDetector("ph"),
	},
	{
		ID:          "wh-digraph",
		Name:        "wh question words",
		Explanation: "Question words and some others start with wh, even though the h is hard to hear.",
		Examples: []ExamplePair{
			{Correct: "where", Wrong: "were"},
			{Correct: "which", Wrong: "wich"},
		},
		Detect: substringDetector("wh"),
	},
	{
		ID:          "ch-digraph",
		Name:        "ch digraph",
		Explanation: "The letters c and h team up to make one sound.",
		Examples: []ExamplePair{
			{Correct: "lunch", Wrong: "lunsh"},
			{Correct: "church", Wrong: "curch"},
		},
		Detect: substringDetector("ch"),
	},
	{
		ID:          "sh-digraph",
		Name:        "sh digraph",
		Explanation: "The letters s and h team up to make one sound.",
		Examples: []ExamplePair{
			{Correct: "shout", Wrong: "sout"},
			{Correct: "fish", Wrong: "fich"},
		},
		Detect: substringDetector("sh"),
	},
	{
		ID:          "th-digraph",
		Name:        "th digraph",
		Explanation: "The letters t and h team up to make one sound.",
		Examples: []ExamplePair{
			{Correct: "think", Wrong: "fink"},
			{Correct: "with", Wrong: "wiv"},
		},
		Detect: substringDetector("th"),
	},
	{
		ID:          "silent-letters",
		Name:        "Silent letters",
		Explanation: "Some words keep letters you cannot hear, like the k in knee or the b in lamb.",
		Examples: []ExamplePair{
			{Correct: "knee", Wrong: "nee"},
			{Correct: "write", Wrong: "rite"},
			{Correct: "lamb", Wrong: "lam"},
		},
		Quiz:   &Quiz{Question: "What silent letter starts 'knee'?", Answer: "k"},
		Detect: detectSilentLetters,
	},
	{
		ID:          "vowel-team",
		Name:        "Vowel teams",
		Explanation: "When two vowels go walking, the first one usually does the talking.",
		Examples: []ExamplePair{
			{Correct: "rain", Wrong: "rane"},
			{Correct: "boat", Wrong: "bote"},
		},
		Detect: substringDetector("ai", "ea", "ee", "oa", "oo", "au", "ou", "ay", "oy", "oi", "ew"),
	},
	{
		ID:          "r-controlled",
		Name:        "Bossy r vowels",
		Explanation: "When r follows a vowel, it changes the vowel's sound.",
		Examples: []ExamplePair{
			{Correct: "bird", Wrong: "burd"},
			{Correct: "work", Wrong: "werk"},
		},
		Detect: detectRControlled,
	},
	{
		ID:          "soft-c",
		Name:        "Soft c",
		Explanation: "The letter c makes an s sound before e, i, or y.",
		Examples: []ExamplePair{
			{Correct: "city", Wrong: "sity"},
			{Correct: "circle", Wrong: "sircle"},
		},
		Detect: softLetterDetector('c'),
	},
	{
		ID:          "soft-g",
		Name:        "Soft g",
		Explanation: "The letter g makes a j sound before e, i, or y.",
		Examples: []ExamplePair{
			{Correct: "giant", Wrong: "jiant"},
			{Correct: "magic", Wrong: "majic"},
		},
		Detect: softLetterDetector('g'),
	},
	{
		ID:          "le-ending",
		Name:        "Consonant-le endings",
		Explanation: "Words ending in the 'ul' sound are usually spelled with consonant + le.",
		Examples: []ExamplePair{
			{Correct: "little", Wrong: "littel"},
			{Correct: "table", Wrong: "tabel"},
		},
		Detect: detectLEEnding,
	},
	{
		ID:          "suffix",
		Name:        "Common suffixes",
		Explanation: "Endings like ed, ing, ly, and ful are spelled the same way on every word.",
		Examples: []ExamplePair{
			{Correct: "jumped", Wrong: "jumpt"},
			{Correct: "truly", Wrong: "truely"},
		},
		Detect: detectSuffix,
	},
	{
		ID:          "y-as-vowel",
		Name:        "y acting as a vowel",
		Explanation: "At the end of a word, y acts as a vowel saying 'ee' or long i.",
		Examples: []ExamplePair{
			{Correct: "happy", Wrong: "happe"},
			{Correct: "cry", Wrong: "crie"},
		},
		Detect: detectFinalY,
	},
}

func lower(s string) string { return strings.ToLower(s) }

const vowels = "aeiou"

func isVowel(b byte) bool     { return strings.IndexByte(vowels, b) >= 0 }
func isConsonant(b byte) bool { return b >= 'a' && b <= 'z' && !isVowel(b) }

// substringDetector builds a detector flagging every occurrence of any of
// the given substrings.
func substringDetector(subs ...string) func(word string) []Region {
	return func(word string) []Region {
		var regions []Region
		for _, sub := range subs {
			from := 0
			for {
				i := strings.Index(word[from:], sub)
				if i < 0 {
					break
				}
				start := from + i
				regions = append(regions, Region{Start: start, End: start + len(sub)})
				from = start + 1
			}
		}
		return regions
	}
}

func detectSilentFinalE(word string) []Region {
	n := len(word)
	if n < 3 || word[n-1] != 'e' {
		return nil
	}
	if !isConsonant(word[n-2]) {
		return nil
	}
	return []Region{{Start: n - 1, End: n}}
}

func detectDoubledConsonant(word string) []Region {
	var regions []Region
	for i := 0; i+1 < len(word); i++ {
		if word[i] == word[i+1] && isConsonant(word[i]) {
			regions = append(regions, Region{Start: i, End: i + 2})
		}
	}
	return regions
}

func detectQU(word string) []Region {
	var regions []Region
	for i := 0; i < len(word); i++ {
		if word[i] != 'q' {
			continue
		}
		end := i + 1
		if i+1 < len(word) && word[i+1] == 'u' {
			end = i + 2
		}
		regions = append(regions, Region{Start: i, End: end})
	}
	return regions
}

// silentPrefixes and silentSuffixes list clusters with an unheard letter.
var silentPrefixes = []string{"kn", "wr", "gn"}
var silentSuffixes = []string{"mb", "mn"}

func detectSilentLetters(word string) []Region {
	var regions []Region
	for _, p := range silentPrefixes {
		if strings.HasPrefix(word, p) {
			regions = append(regions, Region{Start: 0, End: len(p)})
		}
	}
	for _, s := range silentSuffixes {
		if strings.HasSuffix(word, s) {
			regions = append(regions, Region{Start: len(word) - len(s), End: len(word)})
		}
	}
	return regions
}

func detectRControlled(word string) []Region {
	var regions []Region
	for i := 0; i+1 < len(word); i++ {
		if isVowel(word[i]) && word[i+1] == 'r' {
			regions = append(regions, Region{Start: i, End: i + 2})
		}
	}
	return regions
}

func softLetterDetector(letter byte) func(word string) []Region {
	return func(word string) []Region {
		var regions []Region
		for i := 0; i+1 < len(word); i++ {
			next := word[i+1]
			if word[i] == letter && (next == 'e' || next == 'i' || next == 'y') {
				regions = append(regions, Region{Start: i, End: i + 2})
			}
		}
		return regions
	}
}

func detectLEEnding(word string) []Region {
	n := len(word)
	if n < 3 || !strings.HasSuffix(word, "le") {
		return nil
	}
	if !isConsonant(word[n-3]) {
		return nil
	}
	return []Region{{Start: n - 3, End: n}}
}

var commonSuffixes = []string{"ing", "ed", "ly", "ful", "est", "ness"}

func detectSuffix(word string) []Region {
	for _, s := range commonSuffixes {
		// Require a stem of at least three letters so short words like
		// "red" or "fly" don't register as suffixed.
		if strings.HasSuffix(word, s) && len(word) >= len(s)+3 {
			return []Region{{Start: len(word) - len(s), End: len(word)}}
		}
	}
	return nil
}

func detectFinalY(word string) []Region {
	n := len(word)
	if n < 2 || word[n-1] != 'y' {
		return nil
	}
	if !isConsonant(word[n-2]) {
		return nil
	}
	return []Region{{Start: n - 1, End: n}}
}
