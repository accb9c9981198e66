package extract

import (
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/brandscan/internal/brand"
)

// Query finds logo candidates in a document.
type Query func(doc *goquery.Document) []*brand.Logo

var (
	// LogoImages selects <img> tags whose id/class/src/alt mention "logo" or "brand".
	LogoImages = Matcher{
		Selector: "img",
		Attrs:    []string{"id", "class", "src", "alt"},
		Targets:  []string{"logo", "brand"},
	}
	// FaviconLinks selects <link> tags whose rel mentions "icon".
	FaviconLinks = Matcher{
		Selector: "link",
		Attrs:    []string{"rel"},
		Targets:  []string{"icon"},
	}
)

// Choice runs queries in order and returns the first non-empty result.
func Choice(doc *goquery.Document, queries ...Query) []*brand.Logo {
	for _, q := range queries {
		if logos := q(doc); len(logos) > 0 {
			return logos
		}
	}
	return nil
}

// ImgTag returns the src of every image matched by LogoImages.
func ImgTag(doc *goquery.Document) []*brand.Logo {
	return collectAttr(LogoImages.Matches(doc), "src")
}

// Favicon returns the href of every link matched by FaviconLinks.
func Favicon(doc *goquery.Document) []*brand.Logo {
	return collectAttr(FaviconLinks.Matches(doc), "href")
}

// OGImage returns Open Graph images. og:image:width and og:image:height
// attach to the most recent og:image; dimensions seen before any og:image
// are ignored.
func OGImage(doc *goquery.Document) []*brand.Logo {
	if doc == nil {
		return nil
	}
	var (
		logos   []*brand.Logo
		current *brand.Logo
	)
	doc.Find("meta[property^='og:image']").Each(func(_ int, s *goquery.Selection) {
		property, ok := s.Attr("property")
		if !ok {
			return
		}
		content, ok := s.Attr("content")
		if !ok {
			return
		}
		switch property {
		case "og:image":
			if current != nil {
				logos = append(logos, current)
			}
			current = brand.NewLogo(content)
		case "og:image:width":
			if current != nil {
				current.Width = parseDimension(content)
			}
		case "og:image:height":
			if current != nil {
				current.Height = parseDimension(content)
			}
		case "og:image:type":
			if current != nil {
				current.MIME = content
			}
		}
	})
	if current != nil {
		logos = append(logos, current)
	}
	return logos
}

func collectAttr(sel *goquery.Selection, attr string) []*brand.Logo {
	var logos []*brand.Logo
	sel.Each(func(_ int, s *goquery.Selection) {
		if value, ok := s.Attr(attr); ok {
			logos = append(logos, brand.NewLogo(value))
		}
	})
	return logos
}

func parseDimension(raw string) *uint64 {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// First returns the first logo or nil.
func First(logos []*brand.Logo) *brand.Logo {
	if len(logos) == 0 {
		return nil
	}
	return logos[0]
}
