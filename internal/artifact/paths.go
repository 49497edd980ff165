package artifact

import "path/filepath"

// Paths owns the file-layout conventions of spec §6 for one book root.
type Paths struct {
	BookRoot string
}

func (p Paths) BookIndex() string {
	return filepath.Join(p.BookRoot, "book-index.json")
}

func (p Paths) chapterDir(chapterID string) string {
	return filepath.Join(p.BookRoot, chapterID)
}

func (p Paths) Asr(chapterID string) string {
	return filepath.Join(p.chapterDir(chapterID), chapterID+".asr.json")
}

func (p Paths) AsrCorpusText(chapterID string) string {
	return filepath.Join(p.chapterDir(chapterID), chapterID+".asr.corpus.txt")
}

func (p Paths) Anchors(chapterID string) string {
	return filepath.Join(p.chapterDir(chapterID), chapterID+".align.anchors.json")
}

func (p Paths) TranscriptIndex(chapterID string) string {
	return filepath.Join(p.chapterDir(chapterID), chapterID+".align.tx.json")
}

func (p Paths) HydratedTranscript(chapterID string) string {
	return filepath.Join(p.chapterDir(chapterID), chapterID+".align.hydrate.json")
}

func (p Paths) TextGrid(chapterID string) string {
	return filepath.Join(p.chapterDir(chapterID), "alignment", "mfa", chapterID+".TextGrid")
}

func (p Paths) PauseAdjustments(chapterID string) string {
	return filepath.Join(p.chapterDir(chapterID), chapterID+".pause-adjustments.json")
}

func (p Paths) PausePolicy(chapterID string) string {
	return filepath.Join(p.chapterDir(chapterID), chapterID+".pause-policy.json")
}
