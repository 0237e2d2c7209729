package awareness

var palette = []string{
	"#FF5733", "#33FF57", "#3357FF", "#F033FF", "#FF33F0",
	"#33FFF0", "#F0FF33", "#FF9933", "#33FF99", "#9933FF",
}

// Color returns a stable cursor colour for a peer: the sum of the id's
// code points picks an entry of a fixed palette.
func Color(peerID string) string {
	sum := 0
	for _, r := range peerID {
		sum += int(r)
	}
	return palette[sum%len(palette)]
}
