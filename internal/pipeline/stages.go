package pipeline

// NewDefaultRegistry builds a Registry with all seven stages of spec
// §4.11 registered in order. build is the BookIndexBuilder Stage 1 uses
// to materialize a fresh BookIndex when one isn't already on disk.
func NewDefaultRegistry(build BookIndexBuilder) *Registry {
	r := NewRegistry()
	stages := []Stage{
		NewBookIndexStage(build),
		NewAsrStage(),
		NewAnchorsStage(),
		NewTranscriptIndexStage(),
		NewHydrateStage(),
		NewMfaStage(),
		NewMergeStage(),
	}
	for _, s := range stages {
		if err := r.Register(s); err != nil {
			// Registration only fails on a duplicate name, which would be
			// a programming error in this fixed list, not a runtime
			// condition callers need to handle.
			panic(err)
		}
	}
	return r
}
