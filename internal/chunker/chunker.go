package chunker

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"chatmark/internal/config"
	"chatmark/internal/logging"
)

// ChunkType classifies how a chunk was assembled.
type ChunkType string

const (
	// TypeMessage is a chunk built from messages of a single speaker.
	TypeMessage ChunkType = "message"
	// TypeConversation is a chunk spanning multiple speakers.
	TypeConversation ChunkType = "conversation"
	// TypeParagraph is the fallback for unstructured plain text.
	TypeParagraph ChunkType = "paragraph"
)

// Speaker is a participant discovered while parsing.
type Speaker struct {
	ID   string
	Name string
}

// Chunk is a contiguous segment of conversation ready for marker matching.
type Chunk struct {
	ID           string
	Type         ChunkType
	Text         string
	Speaker      *Speaker
	Timestamp    time.Time
	StartPos     int
	EndPos       int
	PrevChunkID  string
	NextChunkID  string
	MessageCount int
	Speakers     []string
}

// WordCount is the whitespace-separated word count of the chunk text.
func (c *Chunk) WordCount() int {
	return len(strings.Fields(c.Text))
}

// CharCount is the byte length of the chunk text.
func (c *Chunk) CharCount() int {
	return len(c.Text)
}

// SpeakerStats accumulates per-speaker volume over a chunking run.
type SpeakerStats struct {
	Chunks int
	Words  int
	Chars  int
}

// Statistics summarizes a chunking run.
type Statistics struct {
	TotalChunks   int
	TotalWords    int
	TotalChars    int
	AvgChunkSize  float64
	TimeSpanHours float64
	SpeakerStats  map[string]SpeakerStats
	ChunkTypes    map[ChunkType]int
}

// Result carries the chunks plus everything learned about the transcript.
type Result struct {
	Format     Format
	Chunks     []Chunk
	Speakers   []Speaker
	Statistics Statistics
	Issues     []string
	Elapsed    time.Duration
}

// Chunker segments transcripts according to its configuration. A Chunker is
// single-use per transcript because it tracks discovered speakers.
type Chunker struct {
	cfg      config.Chunking
	logger   *slog.Logger
	speakers map[string]*Speaker
	order    []string
}

// New returns a Chunker for one transcript.
func New(cfg config.Chunking, logger *slog.Logger) *Chunker {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Chunker{
		cfg:      cfg,
		logger:   logging.WithComponent(logger, "chunker"),
		speakers: make(map[string]*Speaker),
	}
}

// Chunk segments text into chunks. An empty format hint triggers automatic
// detection. Unstructured text yields a single paragraph chunk rather than
// an error.
func (c *Chunker) Chunk(text string, formatHint Format) *Result {
	start := time.Now()

	format := formatHint
	if format == FormatAuto {
		format = DetectFormat(text)
	}
	c.logger.Info("chunking transcript", "format", string(format), "bytes", len(text))

	result := &Result{Format: format}

	messages, issues := parseMessages(text, format)
	result.Issues = issues
	for _, issue := range issues {
		c.logger.Warn("chunking issue", "detail", issue)
	}

	if len(messages) == 0 {
		result.Chunks = []Chunk{c.newChunk(text, TypeParagraph, nil, time.Time{}, 0, len(text), 1, nil)}
	} else {
		result.Chunks = c.groupMessages(messages)
	}

	for _, name := range c.order {
		result.Speakers = append(result.Speakers, *c.speakers[name])
	}

	result.Statistics = calculateStatistics(result.Chunks)
	result.Elapsed = time.Since(start)

	c.logger.Info("chunking complete",
		logging.Int(logging.FieldChunkCount, len(result.Chunks)),
		"speakers", len(result.Speakers),
		"elapsed", result.Elapsed)
	return result
}

// groupMessages walks messages in order, starting a new chunk on speaker
// change, on a time gap above the configured threshold, or when appending
// would exceed the size ceiling.
func (c *Chunker) groupMessages(messages []message) []Chunk {
	var (
		chunks      []Chunk
		pending     []message
		pendingSize int
		lastSpeaker string
		lastTS      time.Time
	)

	flush := func() {
		if len(pending) == 0 {
			return
		}
		chunks = append(chunks, c.chunkFromMessages(pending))
		pending = nil
		pendingSize = 0
	}

	for _, msg := range messages {
		split := false
		if c.cfg.ChunkBySpeaker && len(pending) > 0 && msg.Speaker != lastSpeaker {
			split = true
		}
		if c.cfg.ChunkByTime && !lastTS.IsZero() && !msg.Timestamp.IsZero() {
			gap := msg.Timestamp.Sub(lastTS)
			if gap > time.Duration(c.cfg.TimeGapMinutes)*time.Minute {
				split = true
			}
		}
		if pendingSize+len(msg.Text) > c.cfg.MaxChunkSize {
			split = true
		}

		if split {
			flush()
		}
		pending = append(pending, msg)
		pendingSize += len(msg.Text)
		lastSpeaker = msg.Speaker
		if !msg.Timestamp.IsZero() {
			lastTS = msg.Timestamp
		}
	}
	flush()

	for i := range chunks {
		if i > 0 {
			chunks[i].PrevChunkID = chunks[i-1].ID
		}
		if i < len(chunks)-1 {
			chunks[i].NextChunkID = chunks[i+1].ID
		}
	}
	return chunks
}

func (c *Chunker) chunkFromMessages(messages []message) Chunk {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		if !msg.Timestamp.IsZero() {
			lines = append(lines, fmt.Sprintf("[%s] %s: %s", msg.Timestamp.Format("2006-01-02 15:04"), msg.Speaker, msg.Text))
		} else {
			lines = append(lines, fmt.Sprintf("%s: %s", msg.Speaker, msg.Text))
		}
	}

	names := uniqueSpeakers(messages)
	var speaker *Speaker
	if len(names) == 1 {
		speaker = c.speaker(names[0])
	} else {
		for _, name := range names {
			c.speaker(name)
		}
	}

	chunkType := TypeMessage
	if len(names) > 1 {
		chunkType = TypeConversation
	}

	var ts time.Time
	for _, msg := range messages {
		if !msg.Timestamp.IsZero() {
			ts = msg.Timestamp
			break
		}
	}

	return c.newChunk(
		strings.Join(lines, "\n"),
		chunkType,
		speaker,
		ts,
		messages[0].StartPos,
		messages[len(messages)-1].EndPos,
		len(messages),
		names,
	)
}

func (c *Chunker) newChunk(text string, chunkType ChunkType, speaker *Speaker, ts time.Time, startPos, endPos, messageCount int, names []string) Chunk {
	if c.cfg.NormalizeWhitespace {
		text = strings.Join(strings.Fields(text), " ")
	}
	return Chunk{
		ID:           "chunk_" + uuid.NewString()[:8],
		Type:         chunkType,
		Text:         text,
		Speaker:      speaker,
		Timestamp:    ts,
		StartPos:     startPos,
		EndPos:       endPos,
		MessageCount: messageCount,
		Speakers:     names,
	}
}

func (c *Chunker) speaker(name string) *Speaker {
	if existing, ok := c.speakers[name]; ok {
		return existing
	}
	sp := &Speaker{
		ID:   fmt.Sprintf("speaker_%d", len(c.speakers)+1),
		Name: name,
	}
	c.speakers[name] = sp
	c.order = append(c.order, name)
	return sp
}

func uniqueSpeakers(messages []message) []string {
	seen := make(map[string]struct{}, len(messages))
	var names []string
	for _, msg := range messages {
		if _, ok := seen[msg.Speaker]; ok {
			continue
		}
		seen[msg.Speaker] = struct{}{}
		names = append(names, msg.Speaker)
	}
	sort.Strings(names)
	return names
}

func calculateStatistics(chunks []Chunk) Statistics {
	stats := Statistics{
		TotalChunks:  len(chunks),
		SpeakerStats: make(map[string]SpeakerStats),
		ChunkTypes:   make(map[ChunkType]int),
	}
	if len(chunks) == 0 {
		return stats
	}

	var minTS, maxTS time.Time
	for i := range chunks {
		chunk := &chunks[i]
		stats.TotalWords += chunk.WordCount()
		stats.TotalChars += chunk.CharCount()
		stats.ChunkTypes[chunk.Type]++

		if chunk.Speaker != nil {
			entry := stats.SpeakerStats[chunk.Speaker.Name]
			entry.Chunks++
			entry.Words += chunk.WordCount()
			entry.Chars += chunk.CharCount()
			stats.SpeakerStats[chunk.Speaker.Name] = entry
		}

		if !chunk.Timestamp.IsZero() {
			if minTS.IsZero() || chunk.Timestamp.Before(minTS) {
				minTS = chunk.Timestamp
			}
			if maxTS.IsZero() || chunk.Timestamp.After(maxTS) {
				maxTS = chunk.Timestamp
			}
		}
	}

	stats.AvgChunkSize = float64(stats.TotalChars) / float64(len(chunks))
	if !minTS.IsZero() {
		stats.TimeSpanHours = maxTS.Sub(minTS).Hours()
	}
	return stats
}
