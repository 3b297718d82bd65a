package models

type StoryChoice struct {
	Text        string `json:"text"`
	Action      string `json:"action"`
	NextChapter int    `json:"nextChapter"`
}

// StoryUpdate is the narrative response to a won game or a choice.
type StoryUpdate struct {
	Chapter       int           `json:"chapter"`
	Text          string        `json:"text"`
	Choices       []StoryChoice `json:"choices"`
	NewDifficulty *int          `json:"newDifficulty"`
}

type StoryStatus struct {
	Chapter int    `json:"chapter"`
	Text    string `json:"text"`
}
