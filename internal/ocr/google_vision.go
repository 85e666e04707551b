package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"snaptext/internal/translate"
)

// imageAnnotator is the slice of the Vision client Recognize depends on.
// *vision.ImageAnnotatorClient satisfies it; tests substitute a fake.
type imageAnnotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
}

// GoogleVisionService implements Service using Google Cloud Vision API
// text detection, with an optional translator for chained translation.
type GoogleVisionService struct {
	client     imageAnnotator
	translator translate.Translator
}

// NewGoogleVisionService creates an OCR service with credentials from
// the environment. It expects either GOOGLE_APPLICATION_CREDENTIALS path
// or GOOGLE_CREDENTIALS JSON in env; translator may be nil when no
// chained translation is wanted.
func NewGoogleVisionService(ctx context.Context, translator translate.Translator) (*GoogleVisionService, error) {
	const op = "NewGoogleVisionService"

	var client *vision.ImageAnnotatorClient
	var err error

	// Check for inline credentials first
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, WrapOCRError(op, err, "failed to create client with GOOGLE_CREDENTIALS")
		}
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
		if err != nil {
			return nil, WrapOCRError(op, err, "failed to create client with GOOGLE_APPLICATION_CREDENTIALS")
		}
	} else {
		// Try default credentials as fallback
		client, err = vision.NewImageAnnotatorClient(ctx)
		if err != nil {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
	}

	return &GoogleVisionService{
		client:     client,
		translator: translator,
	}, nil
}

// NewGoogleVisionServiceWithClient creates an OCR service with an
// explicit annotator (for testing).
func NewGoogleVisionServiceWithClient(client imageAnnotator, translator translate.Translator) *GoogleVisionService {
	return &GoogleVisionService{
		client:     client,
		translator: translator,
	}
}

// Recognize extracts text from imageData via TEXT_DETECTION.
//
// An empty annotation list is a valid outcome: the result carries empty
// text and zero confidence, no error. When targetLanguage is set and
// text was found, the translation chain runs best-effort and its failure
// leaves the original text in TranslatedText rather than failing the
// call.
func (g *GoogleVisionService) Recognize(ctx context.Context, imageData []byte, targetLanguage string) (*Result, error) {
	const op = "Recognize"
	startTime := time.Now()

	processed, err := Preprocess(imageData)
	if err != nil {
		return nil, err
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: processed},
				Features: []*visionpb.Feature{
					{
						Type:       visionpb.Feature_TEXT_DETECTION,
						MaxResults: 1,
					},
				},
			},
		},
	}

	resp, err := g.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, WrapOCRError(op, ErrBackend, fmt.Sprintf("Vision API call failed: %v", err))
	}

	if len(resp.Responses) == 0 {
		return nil, WrapOCRError(op, ErrBackend, "no response from Vision API")
	}

	imageResp := resp.Responses[0]
	if imageResp.Error != nil {
		return nil, WrapOCRError(op, ErrBackend, fmt.Sprintf("Vision API error: %s", imageResp.Error.Message))
	}

	result := &Result{}
	if len(imageResp.TextAnnotations) > 0 {
		// The first annotation is the full extracted text.
		result.Text = strings.TrimSpace(imageResp.TextAnnotations[0].Description)
		result.Confidence = NominalConfidence
	}

	if targetLanguage != "" && result.Text != "" && g.translator != nil {
		chained := translate.BestEffort(ctx, g.translator, result.Text, targetLanguage)
		result.TranslatedText = chained.TranslatedText
		result.DetectedLanguage = chained.DetectedLanguage
	}

	result.ProcessedAt = time.Now()
	result.ProcessingDuration = result.ProcessedAt.Sub(startTime)

	return result, nil
}
