package classifier

// DefaultLabels lists the distracted-driver classes in the order the model
// was trained with. The output tensor index i corresponds to DefaultLabels[i].
var DefaultLabels = []string{
	"c0: normal driving",
	"c1: texting - right",
	"c2: talking on the phone - right",
	"c3: texting - left",
	"c4: talking on the phone - left",
	"c5: operating the radio",
	"c6: drinking",
	"c7: reaching behind",
	"c8: hair and makeup",
	"c9: talking to passenger",
}
