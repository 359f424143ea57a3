package interview

import (
	"fmt"
	"strings"

	"github.com/abhishek622/intellihire/pkg/model"
)

// ChunkSize is the number of question/answer pairs evaluated per prompt.
const ChunkSize = 5

// respondWindow bounds how many prior exchanges a continuation prompt carries.
const respondWindow = 10

// QAPair is one asked question and the candidate's answer, if any.
type QAPair struct {
	Index    int // 1-based position in the whole transcript
	Question string
	Answer   string
}

// PairTranscript folds a chronological transcript into question/answer
// pairs. A question takes the answer that immediately follows it; an answer
// with no question in front of it is dropped.
func PairTranscript(entries []model.ChatEntry) []QAPair {
	pairs := make([]QAPair, 0, len(entries)/2+1)
	for i := 0; i < len(entries); i++ {
		if entries[i].Type != model.EntryTypeQuestion {
			continue
		}
		p := QAPair{Index: len(pairs) + 1, Question: entries[i].Content}
		if i+1 < len(entries) && entries[i+1].Type == model.EntryTypeAnswer {
			p.Answer = entries[i+1].Content
			i++
		}
		pairs = append(pairs, p)
	}
	return pairs
}

// Chunk splits pairs into consecutive groups of size; the last may be shorter.
func Chunk(pairs []QAPair, size int) [][]QAPair {
	if size < 1 {
		size = ChunkSize
	}
	chunks := make([][]QAPair, 0, (len(pairs)+size-1)/size)
	for start := 0; start < len(pairs); start += size {
		end := min(start+size, len(pairs))
		chunks = append(chunks, pairs[start:end])
	}
	return chunks
}

func formatPairs(pairs []QAPair) string {
	var sb strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&sb, "Q%d: %s\n", p.Index, p.Question)
		if p.Answer != "" {
			fmt.Fprintf(&sb, "A%d: %s\n", p.Index, p.Answer)
		} else {
			fmt.Fprintf(&sb, "A%d: (no answer given)\n", p.Index)
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

func formatExchanges(history []model.Exchange) string {
	if len(history) > respondWindow {
		history = history[len(history)-respondWindow:]
	}
	blocks := make([]string, 0, len(history))
	for i, e := range history {
		blocks = append(blocks, fmt.Sprintf("Q%d: %s\nA%d: %s", i+1, e.Question, i+1, e.Answer))
	}
	return strings.Join(blocks, "\n\n")
}
