package notionsync

import (
	"github.com/bmorrow/taplist/internal/infra/bigquery"
	"github.com/jomei/notionapi"
)

// PendingBeerToNotionProperties converts a pending beer row into the
// moderation board's page properties. The Beer ID title is the idempotency
// key: sync skips pages whose Beer ID already exists on the board.
func PendingBeerToNotionProperties(beer *bigquery.PendingBeerRow) notionapi.Properties {
	props := notionapi.Properties{
		"Beer ID": notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: beer.BeerID,
					},
				},
			},
		},
		"Name": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: beer.Name,
					},
				},
			},
		},
	}

	if beer.Type != "" {
		props["Style"] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: beer.Type,
			},
		}
	}

	if beer.BarID != "" {
		props["Bar"] = notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: beer.BarID,
					},
				},
			},
		}
	}

	if beer.Brewery.Valid {
		props["Brewery"] = notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: beer.Brewery.StringVal,
					},
				},
			},
		}
	}

	if beer.ABV.Valid {
		props["ABV"] = notionapi.NumberProperty{
			Number: beer.ABV.Float64,
		}
	}

	if beer.Price.Valid {
		props["Price"] = notionapi.NumberProperty{
			Number: beer.Price.Float64,
		}
	}

	if beer.Size.Valid {
		props["Size (oz)"] = notionapi.NumberProperty{
			Number: float64(beer.Size.Int64),
		}
	}

	if beer.Status != "" {
		props["Status"] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: beer.Status,
			},
		}
	}

	return props
}

// extractBeerID pulls the Beer ID title back out of a Notion page.
func extractBeerID(page notionapi.Page) string {
	prop, ok := page.Properties["Beer ID"]
	if !ok {
		return ""
	}

	title, ok := prop.(*notionapi.TitleProperty)
	if !ok || len(title.Title) == 0 {
		return ""
	}

	return title.Title[0].PlainText
}
