package petfinder

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/samshap/dog-digest/app/digest"
)

// toListing maps one upstream record into the domain model. An unparseable
// published_at becomes a zero time, which the window predicate treats as
// out-of-window rather than an error.
func toListing(a animal) digest.Listing {
	l := digest.Listing{
		ID:             strconv.FormatInt(a.ID, 10),
		Name:           a.Name,
		Size:           a.Size,
		Age:            a.Age,
		Gender:         a.Gender,
		PrimaryBreed:   a.Breeds.Primary,
		SecondaryBreed: a.Breeds.Secondary,
		Description:    a.Description,
		URL:            a.URL,
		ContactEmail:   a.Contact.Email,
		ContactPhone:   a.Contact.Phone,
	}

	if a.PublishedAt != "" {
		parsed, err := time.Parse(time.RFC3339, a.PublishedAt)
		if err != nil {
			slog.Debug("Unparseable published_at, listing will fall outside the window",
				"id", l.ID, "published_at", a.PublishedAt, "error", err)
		} else {
			l.PublishedAt = parsed
		}
	}

	l.Photos = selectPhotos(a)
	l.VideoURLs = selectVideos(a)

	return l
}

// selectVideos keeps one reference per clip, preferring a direct link over
// embed markup. Entries carrying neither are dropped.
func selectVideos(a animal) []string {
	var urls []string
	for _, v := range a.Videos {
		switch {
		case v.URL != "":
			urls = append(urls, v.URL)
		case v.Embed != "":
			urls = append(urls, v.Embed)
		}
	}
	return urls
}

// selectPhotos prefers the pre-cropped primary pair and falls back to the
// first generic photo. A pair missing either size is dropped entirely.
func selectPhotos(a animal) []digest.Photo {
	if p := a.PrimaryPhotoCropped; p != nil && p.Small != "" && p.Full != "" {
		return []digest.Photo{{Small: p.Small, Large: p.Full}}
	}
	if len(a.Photos) > 0 {
		p := a.Photos[0]
		if p.Small != "" && p.Full != "" {
			return []digest.Photo{{Small: p.Small, Large: p.Full}}
		}
	}
	return nil
}
