package catalog

import (
	"time"

	"showshelf/internal/domain"
)

// mapMediaRecord converts a catalog DTO into the domain record.
func mapMediaRecord(dto mediaDetails, kind domain.MediaKind) domain.MediaRecord {
	rec := domain.MediaRecord{
		ID:           dto.ID,
		Title:        dto.Title,
		Overview:     dto.Overview,
		PosterPath:   dto.PosterPath,
		BackdropPath: dto.BackdropPath,
		Rating:       dto.VoteAverage,
	}

	date := dto.ReleaseDate
	if kind == domain.KindSeries {
		rec.Title = dto.Name
		date = dto.FirstAirDate
	}
	if rec.Title == "" {
		// Some endpoints fill only the other field.
		if dto.Title != "" {
			rec.Title = dto.Title
		} else {
			rec.Title = dto.Name
		}
	}

	if date != "" {
		if t, err := time.Parse("2006-01-02", date); err == nil {
			rec.ReleaseDate = t
		}
	}

	return rec
}
