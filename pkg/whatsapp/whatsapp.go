package whatsapp

import (
	"Veriface/database/postgres"
	"context"
	"fmt"
	"os"
	"time"

	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/binary/proto"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"
)

// IWhatsappSender pushes check-in confirmations to the attendance ops phone.
// The sender is optional: when WHATSAPP_ENABLED is not "true", New returns
// (nil, nil) and callers skip notification.
type IWhatsappSender interface {
	SendCheckInAlert(ctx context.Context, identity string, at time.Time) error
	Disconnect() error
	IsConnected() bool
}

type whatsappSender struct {
	client     *whatsmeow.Client
	alertPhone string
}

func New() (IWhatsappSender, error) {
	if os.Getenv("WHATSAPP_ENABLED") != "true" {
		return nil, nil
	}

	alertPhone := os.Getenv("WHATSAPP_ALERT_PHONE")
	if alertPhone == "" {
		return nil, fmt.Errorf("WHATSAPP_ALERT_PHONE not set")
	}

	dsn := postgres.FormatDSN()

	dbLog := waLog.Stdout("Database", "INFO", true)
	container, err := sqlstore.New(context.Background(), "postgres", dsn, dbLog)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get device store: %w", err)
	}

	client := whatsmeow.NewClient(deviceStore, waLog.Stdout("Client", "INFO", true))

	connected := make(chan bool)
	client.AddEventHandler(func(evt interface{}) {
		if _, ok := evt.(*events.Connected); ok {
			connected <- true
		}
	})

	if client.Store.ID == nil {
		qrChan, _ := client.GetQRChannel(context.Background())
		if err := client.Connect(); err != nil {
			return nil, fmt.Errorf("failed to connect: %w", err)
		}

		go func() {
			for evt := range qrChan {
				if evt.Event == "code" {
					fmt.Println("QR Code:", evt.Code)
				}
			}
		}()
	} else {
		if err := client.Connect(); err != nil {
			return nil, fmt.Errorf("failed to connect: %w", err)
		}
	}

	select {
	case <-connected:
	case <-time.After(60 * time.Second):
		return nil, fmt.Errorf("connection timeout")
	}

	return &whatsappSender{
		client:     client,
		alertPhone: alertPhone,
	}, nil
}

func (w *whatsappSender) SendCheckInAlert(ctx context.Context, identity string, at time.Time) error {
	jid := types.NewJID(w.alertPhone, types.DefaultUserServer)

	text := fmt.Sprintf("%s checked in at %s", identity, at.Format("15:04:05"))
	waMsg := &waProto.Message{
		Conversation: proto.String(text),
	}

	_, err := w.client.SendMessage(ctx, jid, waMsg)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

func (w *whatsappSender) Disconnect() error {
	w.client.Disconnect()
	return nil
}

func (w *whatsappSender) IsConnected() bool {
	return w.client.IsConnected()
}
