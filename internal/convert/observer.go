package convert

// Observer receives conversion events. Implementations must be cheap; they
// are called inline.
type Observer interface {
	NodeBuilt(nodeType string)
	ConnectionRerouted(nodeType string)
	MixerInserted(channels int)
	SubpatchInlined(patchID string, references int)
}

type nopObserver struct{}

func (nopObserver) NodeBuilt(string) {}
func (nopObserver) ConnectionRerouted(string) {}
func (nopObserver) MixerInserted(int) {}
func (nopObserver) SubpatchInlined(string, int) {}
