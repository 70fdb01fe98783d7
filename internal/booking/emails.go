package booking

import (
	"fmt"
	"strings"

	"github.com/studiobook/studio-booking/internal/user"
)

// Email is a queued notification effect, dispatched only after the
// transition that produced it has committed.
type Email struct {
	To      []string
	Subject string
	HTML    string
}

func emailBody(paragraphs ...string) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family:Inter,Arial,sans-serif;color:#111;font-size:15px">`)
	for _, p := range paragraphs {
		b.WriteString("<p>")
		b.WriteString(p)
		b.WriteString("</p>")
	}
	b.WriteString(`<hr><small>Studiobook</small></div>`)
	return b.String()
}

func slotLine(s *Slot) string {
	return fmt.Sprintf("<b>Slot:</b> %s", s.Window())
}

func requestEmail(producer, artist *user.User, slot *Slot) Email {
	return Email{
		To:      []string{producer.Email},
		Subject: "New booking request",
		HTML: emailBody(
			fmt.Sprintf("Hi %s,", producer.Label()),
			fmt.Sprintf("you received a new booking request from artist <b>%s</b>.", artist.Label()),
			slotLine(slot),
			"Log in to the producer area to accept or decline.",
		),
	}
}

func producerAcceptedManagerEmail(managers []string, producer, artist *user.User, slot *Slot) Email {
	return Email{
		To:      managers,
		Subject: "Booking awaiting approval (manager)",
		HTML: emailBody(
			"Hi,",
			fmt.Sprintf("Producer <b>%s</b> accepted the request from artist <b>%s</b>.", producer.Label(), artist.Label()),
			slotLine(slot),
			"Confirm or decline from the manager dashboard.",
		),
	}
}

func producerAcceptedArtistEmail(artist, producer *user.User, slot *Slot) Email {
	return Email{
		To:      []string{artist.Email},
		Subject: "The producer accepted your request",
		HTML: emailBody(
			fmt.Sprintf("Hi %s,", artist.Label()),
			fmt.Sprintf("Producer <b>%s</b> accepted your request.", producer.Label()),
			slotLine(slot),
			"The booking is now awaiting manager approval.",
		),
	}
}

func producerRejectedEmail(artist, producer *user.User, slot *Slot) Email {
	return Email{
		To:      []string{artist.Email},
		Subject: "Your request was declined by the producer",
		HTML: emailBody(
			fmt.Sprintf("Hi %s,", artist.Label()),
			fmt.Sprintf("Producer <b>%s</b> declined your request.", producer.Label()),
			slotLine(slot),
		),
	}
}

func partiesLine(artist, producer *user.User, slot *Slot) string {
	return fmt.Sprintf("<b>Artist:</b> %s<br/><b>Producer:</b> %s<br/>%s",
		artist.Label(), producer.Label(), slotLine(slot))
}

func confirmedEmail(artist, producer *user.User, slot *Slot) Email {
	return Email{
		To:      []string{artist.Email, producer.Email},
		Subject: "Booking confirmed",
		HTML: emailBody(
			"Hi,",
			"Your booking has been <b>confirmed</b>.",
			partiesLine(artist, producer, slot),
		),
	}
}

func managerRejectedEmail(artist, producer *user.User, slot *Slot) Email {
	return Email{
		To:      []string{artist.Email, producer.Email},
		Subject: "Booking declined by the manager",
		HTML: emailBody(
			"Hi,",
			"The booking was <b>declined</b> by the managers.",
			partiesLine(artist, producer, slot),
		),
	}
}

func cancelConfirmationEmail(actor *user.User, slot *Slot) Email {
	return Email{
		To:      []string{actor.Email},
		Subject: "Booking cancellation confirmed",
		HTML: emailBody(
			fmt.Sprintf("Hi %s,", actor.Label()),
			"you canceled the confirmed booking.",
			slotLine(slot),
		),
	}
}

func producerCanceledArtistEmail(artist, producer *user.User, slot *Slot) Email {
	return Email{
		To:      []string{artist.Email},
		Subject: "The producer canceled the booking",
		HTML: emailBody(
			fmt.Sprintf("Hi %s,", artist.Label()),
			fmt.Sprintf("producer <b>%s</b> canceled the confirmed booking.", producer.Label()),
			slotLine(slot),
		),
	}
}

func producerCanceledManagerEmail(managers []string, artist, producer *user.User, slot *Slot) Email {
	return Email{
		To:      managers,
		Subject: "Booking canceled by the producer",
		HTML: emailBody(
			"Hi,",
			fmt.Sprintf("Producer <b>%s</b> canceled a confirmed booking with artist <b>%s</b>.", producer.Label(), artist.Label()),
			slotLine(slot),
		),
	}
}

func artistCanceledProducerEmail(producer, artist *user.User, slot *Slot) Email {
	return Email{
		To:      []string{producer.Email},
		Subject: "The artist canceled the booking",
		HTML: emailBody(
			fmt.Sprintf("Hi %s,", producer.Label()),
			fmt.Sprintf("artist <b>%s</b> canceled the confirmed booking.", artist.Label()),
			slotLine(slot),
		),
	}
}

func artistCanceledManagerEmail(managers []string, artist, producer *user.User, slot *Slot) Email {
	return Email{
		To:      managers,
		Subject: "Booking canceled by the artist",
		HTML: emailBody(
			"Hi,",
			fmt.Sprintf("Artist <b>%s</b> canceled a confirmed booking with producer <b>%s</b>.", artist.Label(), producer.Label()),
			slotLine(slot),
		),
	}
}
