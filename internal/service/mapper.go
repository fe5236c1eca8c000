package service

import (
	"agro-market-api/internal/entity"
)

func mapListing(l *entity.Listing) *entity.ListingOutputModel {
	return &entity.ListingOutputModel{
		Id:             l.Id.String(),
		OwnerId:        l.OwnerId.String(),
		ProductName:    l.ProductName,
		Quantity:       l.Quantity,
		Unit:           l.Unit,
		PricePerUnit:   l.PricePerUnit.String(),
		Currency:       l.Currency,
		AvailableFrom:  l.AvailableFrom,
		AvailableUntil: l.AvailableUntil,
		Description:    l.Description,
		AdminDeal:      l.AdminDeal,
		CreatedAt:      l.CreatedAt,
	}
}

func mapListings(listings []entity.Listing) []entity.ListingOutputModel {
	s := make([]entity.ListingOutputModel, 0)
	for _, l := range listings {
		s = append(s, *mapListing(&l))
	}

	return s
}

func mapRequest(r *entity.Request) *entity.RequestOutputModel {
	return &entity.RequestOutputModel{
		Id:           r.Id.String(),
		OwnerId:      r.OwnerId.String(),
		ProductName:  r.ProductName,
		Quantity:     r.Quantity,
		Unit:         r.Unit,
		PricePerUnit: r.PricePerUnit.String(),
		Currency:     r.Currency,
		NeededBy:     r.NeededBy,
		Description:  r.Description,
		AdminDeal:    r.AdminDeal,
		CreatedAt:    r.CreatedAt,
	}
}

func mapRequests(requests []entity.Request) []entity.RequestOutputModel {
	s := make([]entity.RequestOutputModel, 0)
	for _, r := range requests {
		s = append(s, *mapRequest(&r))
	}

	return s
}

func mapDeal(d *entity.DealRecord) *entity.DealOutputModel {
	out := &entity.DealOutputModel{
		Id:         d.Id.String(),
		EntityKind: d.EntityKind,
		EntityId:   d.EntityId.String(),
		Verdict:    d.Verdict,
		CreatedAt:  d.CreatedAt,
	}
	if d.ResolvedAt.Valid {
		out.ResolvedAt = d.ResolvedAt.String
	}
	if d.ResolvedBy.Valid {
		out.ResolvedBy = d.ResolvedBy.UUID.String()
	}

	return out
}

func mapDeals(deals []entity.DealRecord) []entity.DealOutputModel {
	s := make([]entity.DealOutputModel, 0)
	for _, d := range deals {
		s = append(s, *mapDeal(&d))
	}

	return s
}

func mapBid(b *entity.Bid) *entity.BidOutputModel {
	out := &entity.BidOutputModel{
		Id:         b.Id.String(),
		TargetKind: b.TargetKind,
		TargetId:   b.TargetId.String(),
		BidderId:   b.BidderId.String(),
		Quantity:   b.Quantity,
		Price:      b.Price.String(),
		Message:    b.Message,
		Status:     b.Status,
		CreatedAt:  b.CreatedAt,
	}
	if b.SettledAt.Valid {
		out.SettledAt = b.SettledAt.String
	}

	return out
}

func mapBids(bids []entity.Bid) []entity.BidOutputModel {
	s := make([]entity.BidOutputModel, 0)
	for _, b := range bids {
		s = append(s, *mapBid(&b))
	}

	return s
}

func mapAuditEntry(e *entity.AuditLogEntry) *entity.AuditLogOutputModel {
	return &entity.AuditLogOutputModel{
		Id:        e.Id.String(),
		AdminId:   e.AdminId.String(),
		Action:    e.Action,
		Reason:    e.Reason,
		CreatedAt: e.CreatedAt,
	}
}

func mapAuditEntries(entries []entity.AuditLogEntry) []entity.AuditLogOutputModel {
	s := make([]entity.AuditLogOutputModel, 0)
	for _, e := range entries {
		s = append(s, *mapAuditEntry(&e))
	}

	return s
}

func mapUser(u *entity.User) *entity.UserOutputModel {
	return &entity.UserOutputModel{
		Id:        u.Id.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Verified:  u.Verified,
		Suspended: u.Suspended,
		CreatedAt: u.CreatedAt,
	}
}

func mapAnnouncement(a *entity.Announcement) *entity.AnnouncementOutputModel {
	return &entity.AnnouncementOutputModel{
		Id:        a.Id.String(),
		Title:     a.Title,
		Body:      a.Body,
		CreatedAt: a.CreatedAt,
	}
}

func mapAnnouncements(announcements []entity.Announcement) []entity.AnnouncementOutputModel {
	s := make([]entity.AnnouncementOutputModel, 0)
	for _, a := range announcements {
		s = append(s, *mapAnnouncement(&a))
	}

	return s
}
