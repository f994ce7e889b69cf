package hinglish

// technicalTerms is the fixed domain vocabulary used to flag segments that
// carry subject nomenclature. Matching is case-insensitive over tokens with
// surrounding punctuation stripped.
var technicalTerms = map[string]struct{}{
	// Physics.
	"force": {}, "mass": {}, "acceleration": {}, "velocity": {}, "momentum": {},
	"energy": {}, "kinetic": {}, "potential": {}, "electromagnetic": {},
	"frequency": {}, "amplitude": {}, "wavelength": {}, "newton": {}, "joule": {},
	"watt": {}, "volt": {}, "ampere": {}, "ohm": {}, "gravity": {}, "friction": {},
	"pressure": {}, "temperature": {}, "thermodynamics": {},

	// Chemistry.
	"atom": {}, "molecule": {}, "electron": {}, "proton": {}, "neutron": {},
	"orbital": {}, "covalent": {}, "ionic": {}, "hydrogen": {}, "oxygen": {},
	"carbon": {}, "nitrogen": {}, "periodic": {}, "element": {}, "compound": {},
	"reaction": {}, "catalyst": {}, "ph": {}, "acid": {}, "base": {},
	"oxidation": {}, "reduction": {}, "molar": {}, "molarity": {},

	// Biology.
	"cell": {}, "nucleus": {}, "cytoplasm": {}, "membrane": {}, "mitochondria": {},
	"dna": {}, "rna": {}, "protein": {}, "enzyme": {}, "chromosome": {}, "gene": {},
	"photosynthesis": {}, "respiration": {}, "metabolism": {}, "homeostasis": {},
	"evolution": {}, "ecosystem": {}, "biodiversity": {}, "species": {},
	"population": {}, "community": {},

	// Math.
	"equation": {}, "formula": {}, "variable": {}, "constant": {}, "coefficient": {},
	"derivative": {}, "integral": {}, "matrix": {}, "vector": {}, "scalar": {},
	"sine": {}, "cosine": {}, "tangent": {}, "logarithm": {}, "exponential": {},
	"polynomial": {},
}

// discourseMarkers maps Devanagari discourse-marker words to their Latin
// spelling. The lightweight engine gets these romanized for flow; everything
// else stays in native script.
var discourseMarkers = map[string]string{
	"देखिए":  "dekhiye",
	"समझिए":  "samjhiye",
	"यहाँ":   "yahan",
	"वहाँ":   "vahan",
	"कैसे":   "kaise",
	"क्यों":  "kyon",
	"क्या":   "kya",
	"जब":     "jab",
	"तब":     "tab",
	"अगर":    "agar",
	"तो":     "to",
	"और":     "aur",
	"या":     "ya",
	"लेकिन":  "lekin",
	"इसलिए":  "isliye",
	"क्योंकि": "kyonki",
}

// pronunciationHints covers multi-syllable loanwords the cloning engine tends
// to mangle in a Hindi context; the hint is appended as a Devanagari
// parenthetical.
var pronunciationHints = map[string]string{
	"acceleration":    "एक्सेलेरेशन",
	"electromagnetic": "इलेक्ट्रोमैग्नेटिक",
	"photosynthesis":  "फोटोसिंथेसिस",
	"thermodynamics":  "थर्मोडायनामिक्स",
	"chromosome":      "क्रोमोसोम",
	"mitochondria":    "माइटोकॉन्ड्रिया",
}

// pauseMarkers are the words that get a comma-equivalent pause right after
// them, in both scripts.
var pauseMarkers = map[string]struct{}{
	"और":     {},
	"aur":    {},
	"लेकिन":  {},
	"lekin":  {},
	"तो":     {},
	"to":     {},
	"इसलिए":  {},
	"isliye": {},
}
