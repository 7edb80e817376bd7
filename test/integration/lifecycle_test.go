// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

//go:build integration

package integration

import (
	"errors"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/hearsay-chat/hearsay/internal/identity"
	"github.com/hearsay-chat/hearsay/internal/room"
)

var _ = Describe("User lifecycle", Ordered, func() {
	var created identity.View

	It("creates a user and issues a token", func() {
		view, err := env.Identity.Create(env.ctx, identity.CreateInput{
			Username: "lifecycle_margot",
			Password: "sekrit-pass",
			Email:    "margot@example.com",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(view.Username).To(Equal("lifecycle_margot"))
		Expect(view.AuthToken).To(MatchRegexp(`^[0-9a-f]{64}$`))
		created = view
	})

	It("rejects a duplicate username regardless of case", func() {
		_, err := env.Identity.Create(env.ctx, identity.CreateInput{
			Username: "LIFECYCLE_MARGOT",
			Password: "sekrit-pass",
			Email:    "other@example.com",
		})
		Expect(errors.Is(err, identity.ErrUsernameTaken)).To(BeTrue())
	})

	It("resolves the bearer token to the stored user", func() {
		user, err := env.Users.GetByAuthToken(env.ctx, created.AuthToken)
		Expect(err).NotTo(HaveOccurred())
		Expect(user.Username).To(Equal("lifecycle_margot"))
	})

	It("fetches the user without exposing credentials", func() {
		view, err := env.Identity.GetByUsername(env.ctx, "lifecycle_margot")
		Expect(err).NotTo(HaveOccurred())
		Expect(view.AuthToken).To(BeEmpty())
		Expect(view.Rooms).To(BeEmpty())
	})

	It("keeps the token across a non-password update", func() {
		user, err := env.Users.GetByAuthToken(env.ctx, created.AuthToken)
		Expect(err).NotTo(HaveOccurred())

		view, err := env.Identity.Update(env.ctx, user, identity.UpdateInput{
			Email: "margot+new@example.com",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(view.Email).To(Equal("margot+new@example.com"))

		_, err = env.Users.GetByAuthToken(env.ctx, created.AuthToken)
		Expect(err).NotTo(HaveOccurred())
	})

	It("rotates the token on a password change", func() {
		user, err := env.Users.GetByAuthToken(env.ctx, created.AuthToken)
		Expect(err).NotTo(HaveOccurred())

		view, err := env.Identity.Update(env.ctx, user, identity.UpdateInput{
			Password: "fresh-sekrit",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(view.AuthToken).To(MatchRegexp(`^[0-9a-f]{64}$`))
		Expect(view.AuthToken).NotTo(Equal(created.AuthToken))

		_, err = env.Users.GetByAuthToken(env.ctx, created.AuthToken)
		Expect(errors.Is(err, identity.ErrNotFound)).To(BeTrue())

		created.AuthToken = view.AuthToken
	})

	It("deletes the user", func() {
		user, err := env.Users.GetByAuthToken(env.ctx, created.AuthToken)
		Expect(err).NotTo(HaveOccurred())

		Expect(env.Identity.Delete(env.ctx, user)).To(Succeed())

		_, err = env.Identity.GetByUsername(env.ctx, "lifecycle_margot")
		Expect(errors.Is(err, identity.ErrNotFound)).To(BeTrue())
	})
})

var _ = Describe("Rooms and comments", Ordered, func() {
	var (
		author identity.View
		base   *room.Room
	)

	BeforeAll(func() {
		view, err := env.Identity.Create(env.ctx, identity.CreateInput{
			Username: "rooms_author",
			Password: "sekrit-pass",
			Email:    "author@example.com",
		})
		Expect(err).NotTo(HaveOccurred())
		author = view
	})

	It("creates a room anchored to a location", func() {
		authorID, err := ulid.Parse(author.UID)
		Expect(err).NotTo(HaveOccurred())

		created, err := env.RoomSvc.CreateRoom(env.ctx, authorID, &room.Room{
			Title: "corner cafe",
			Topic: room.Topic{Type: "location", Content: "the place with the blue door"},
			Location: room.Location{
				Lat:    "52.52",
				Lng:    "13.40",
				Radius: 800,
			},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(created.Location.Scope()).To(Equal("neighborhood"))
		base = created
	})

	It("rejects a radius outside the fixed set", func() {
		authorID, err := ulid.Parse(author.UID)
		Expect(err).NotTo(HaveOccurred())

		_, err = env.RoomSvc.CreateRoom(env.ctx, authorID, &room.Room{
			Title:    "bad radius",
			Topic:    room.Topic{Type: "url", Content: "https://example.com"},
			Location: room.Location{Lat: "52.52", Lng: "13.40", Radius: 500},
		})
		Expect(err).To(HaveOccurred())
	})

	It("lists the room in the active feed", func() {
		feed, err := env.RoomSvc.Feed(env.ctx, false)
		Expect(err).NotTo(HaveOccurred())

		var titles []string
		for _, r := range feed {
			titles = append(titles, r.Title)
		}
		Expect(titles).To(ContainElement("corner cafe"))
	})

	It("shows the room on the author's profile", func() {
		view, err := env.Identity.GetByUsername(env.ctx, "rooms_author")
		Expect(err).NotTo(HaveOccurred())
		Expect(view.Rooms).To(HaveLen(1))
		Expect(view.Rooms[0].Title).To(Equal("corner cafe"))
	})

	It("adds and lists comments oldest first", func() {
		authorID, err := ulid.Parse(author.UID)
		Expect(err).NotTo(HaveOccurred())

		_, err = env.RoomSvc.AddComment(env.ctx, base.ID, authorID, "first")
		Expect(err).NotTo(HaveOccurred())
		_, err = env.RoomSvc.AddComment(env.ctx, base.ID, authorID, "second")
		Expect(err).NotTo(HaveOccurred())

		comments, err := env.RoomSvc.Comments(env.ctx, base.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(comments).To(HaveLen(2))
		Expect(comments[0].Content).To(Equal("first"))
		Expect(comments[1].Content).To(Equal("second"))
	})

	It("archives the room out of the active feed", func() {
		Expect(env.RoomSvc.Archive(env.ctx, base.ID, true)).To(Succeed())

		feed, err := env.RoomSvc.Feed(env.ctx, false)
		Expect(err).NotTo(HaveOccurred())
		for _, r := range feed {
			Expect(r.ID).NotTo(Equal(base.ID))
		}

		archived, err := env.RoomSvc.Feed(env.ctx, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(archived).NotTo(BeEmpty())
	})

	It("cascades room deletion to comments", func() {
		Expect(env.RoomSvc.DeleteRoom(env.ctx, base.ID)).To(Succeed())

		comments, err := env.RoomSvc.Comments(env.ctx, base.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(comments).To(BeEmpty())
	})
})
