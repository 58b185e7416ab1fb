package mailfetch

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
	"github.com/rs/zerolog/log"

	"github.com/refurbops/opsdash/internal/config"
)

// Attachment is one spreadsheet pulled out of an email.
type Attachment struct {
	Filename string
	Data     []byte
}

// Mailbox lists report attachments from recent mail.
type Mailbox interface {
	// FetchAttachments returns the number of emails scanned and every
	// spreadsheet attachment received since the given time.
	FetchAttachments(ctx context.Context, since time.Time) (int, []Attachment, error)
}

type imapMailbox struct {
	cfg *config.MailConfig
}

// NewMailbox returns an IMAP-backed Mailbox.
func NewMailbox(cfg *config.MailConfig) Mailbox {
	return &imapMailbox{cfg: cfg}
}

// isSpreadsheet matches the report attachments by extension first, falling
// back to the content type for mailers that mangle filenames.
func isSpreadsheet(filename, contentType string) bool {
	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls") {
		return true
	}
	return strings.Contains(contentType, "spreadsheet") || strings.Contains(contentType, "excel")
}

func (m *imapMailbox) FetchAttachments(ctx context.Context, since time.Time) (int, []Attachment, error) {
	addr := m.cfg.IMAPHost + ":" + m.cfg.IMAPPort
	c, err := client.DialTLS(addr, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer c.Logout()

	if err := c.Login(m.cfg.User, m.cfg.Password); err != nil {
		return 0, nil, fmt.Errorf("failed to log in as %s: %w", m.cfg.User, err)
	}
	if _, err := c.Select(m.cfg.Mailbox, false); err != nil {
		return 0, nil, fmt.Errorf("failed to open mailbox %s: %w", m.cfg.Mailbox, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.Since = since
	uids, err := c.Search(criteria)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to search mailbox: %w", err)
	}
	log.Info().Int("emails", len(uids)).Str("since", since.Format("2006-01-02")).Msg("mailbox searched")
	if len(uids) == 0 {
		return 0, nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(uids...)
	section := &imap.BodySectionName{}
	items := []imap.FetchItem{section.FetchItem()}

	messages := make(chan *imap.Message, 10)
	fetchErr := make(chan error, 1)
	go func() {
		fetchErr <- c.Fetch(seqset, items, messages)
	}()

	var attachments []Attachment
	for msg := range messages {
		select {
		case <-ctx.Done():
			return len(uids), attachments, ctx.Err()
		default:
		}

		body := msg.GetBody(section)
		if body == nil {
			continue
		}
		found, err := readAttachments(body)
		if err != nil {
			// One unreadable email must not sink the whole run.
			log.Warn().Err(err).Uint32("seq", msg.SeqNum).Msg("failed to read email")
			continue
		}
		attachments = append(attachments, found...)
	}
	if err := <-fetchErr; err != nil {
		return len(uids), attachments, fmt.Errorf("failed to fetch emails: %w", err)
	}
	return len(uids), attachments, nil
}

func readAttachments(r io.Reader) ([]Attachment, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, err
	}

	var attachments []Attachment
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return attachments, err
		}

		header, ok := part.Header.(*mail.AttachmentHeader)
		if !ok {
			continue
		}
		filename, err := header.Filename()
		if err != nil {
			continue
		}
		contentType, _, _ := header.ContentType()
		if !isSpreadsheet(filename, contentType) {
			continue
		}

		data, err := io.ReadAll(part.Body)
		if err != nil {
			return attachments, err
		}
		attachments = append(attachments, Attachment{Filename: filename, Data: data})
	}
	return attachments, nil
}
