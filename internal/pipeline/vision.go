package pipeline

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// VisionExtractor sends the menu photo to Gemini and parses the reply into
// candidates. Every failure mode — network, HTTP, empty reply, unparseable
// JSON — degrades to an empty batch so the caller can show "no beers found"
// instead of an error. It never falls back to the legacy text parser.
type VisionExtractor struct {
	model      string
	vocab      *StyleVocabulary
	classifier *StyleClassifier
	log        zerolog.Logger
}

// NewVisionExtractor creates the Gemini-backed extractor. An empty model
// name selects DefaultModelName.
func NewVisionExtractor(model string, vocab *StyleVocabulary, log zerolog.Logger) *VisionExtractor {
	if model == "" {
		model = DefaultModelName
	}
	return &VisionExtractor{
		model:      model,
		vocab:      vocab,
		classifier: NewStyleClassifier(vocab, DefaultVisionFallbackStyle),
		log:        log,
	}
}

// Extract implements Extractor over in.Image.
func (e *VisionExtractor) Extract(ctx context.Context, in ScanInput) ([]CandidateBeer, error) {
	if len(in.Image) == 0 {
		return nil, nil
	}

	mime := http.DetectContentType(in.Image)
	if !strings.HasPrefix(mime, "image/") {
		e.log.Warn().Str("mime", mime).Msg("Scan payload is not an image")
		return nil, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		e.log.Error().Err(err).Msg("Creating genai client failed")
		return nil, nil
	}

	prompt := buildMenuPrompt(e.vocab.Styles(ctx), in.Options.SingleBrewery)

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mime,
						Data:     in.Image,
					},
				},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, e.model, contents, nil)
	if err != nil {
		e.log.Error().Err(err).Str("model", e.model).Msg("Vision extraction call failed")
		return nil, nil
	}

	rawText := resp.Text()
	if rawText == "" {
		e.log.Warn().Msg("Vision model returned an empty reply")
		return nil, nil
	}

	records, ok := ExtractJSONArray(rawText)
	if !ok {
		records, ok = parseReplyLines(rawText)
	}
	if !ok {
		e.log.Warn().Int("reply_len", len(rawText)).Msg("No parseable JSON array or beer lines in vision reply")
		return nil, nil
	}

	candidates := make([]CandidateBeer, 0, len(records))
	for _, obj := range records {
		c, err := recordToCandidate(ctx, obj, e.classifier, e.vocab)
		if err != nil {
			e.log.Debug().Err(err).Str("record", describeRecord(obj)).Msg("Extraction record rejected")
			continue
		}
		c.RawText = "vision: " + describeRecord(obj)
		candidates = append(candidates, c)
	}

	return candidates, nil
}

// visionLinePattern matches the model's second reply shape, one beer per
// line: "Name (Brewery, ABV% ABV) - $Price - SizeOz".
var visionLinePattern = regexp.MustCompile(`(?i)^(.+?)\s*\(([^,()]+),\s*(\d+(?:\.\d+)?)%\s*ABV\)\s*-\s*\$(\d+(?:\.\d+)?)\s*-\s*(\d+)\s*oz\.?\s*$`)

// parseReplyLines recovers records when the model ignores the JSON
// instruction and answers in lines instead. Non-matching lines are skipped;
// the boolean reports whether any line matched.
func parseReplyLines(raw string) ([]map[string]interface{}, bool) {
	var records []map[string]interface{}
	for _, line := range strings.Split(raw, "\n") {
		m := visionLinePattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}

		abv, _ := strconv.ParseFloat(m[3], 64)
		price, _ := strconv.ParseFloat(m[4], 64)
		size, _ := strconv.ParseFloat(m[5], 64)

		records = append(records, map[string]interface{}{
			"name":    strings.TrimSpace(m[1]),
			"brewery": strings.TrimSpace(m[2]),
			"abv":     abv,
			"price":   price,
			"size":    size,
		})
	}
	return records, len(records) > 0
}
