package api

import "github.com/dfryer1193/driveimages/images/domain"

// FromDomain converts a registry record to its wire form
func FromDomain(img *domain.Image) Image {
	return Image{
		Key:     img.Key,
		Title:   img.Title,
		Raw:     img.Raw,
		URL:     img.URL,
		Created: img.Created.Local().Format(domain.CreatedLayout),
	}
}

// FromDomainList converts records, keeping their order
func FromDomainList(imgs []*domain.Image) []Image {
	out := make([]Image, 0, len(imgs))
	for _, img := range imgs {
		out = append(out, FromDomain(img))
	}
	return out
}
