package broker

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/madina-shop/cashbook-services/internal/cashsvc/models"
	"github.com/madina-shop/cashbook-services/internal/comm"
)

// Broker publishes ledger events to NATS for external consumers. A nil
// Broker is safe to call and publishes nothing, so wiring stays optional.
type Broker struct {
	natsConn *nats.Conn
}

func NewBroker(natsConn *nats.Conn) *Broker {
	return &Broker{natsConn: natsConn}
}

func (b *Broker) publish(subject string, v any) {
	if b == nil || b.natsConn == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal %s event: %v", subject, err)
		return
	}
	if err := b.natsConn.Publish(subject, data); err != nil {
		log.Errorf("publish %s event: %v", subject, err)
	}
}

// TransactionRecorded announces a newly stored transaction.
func (b *Broker) TransactionRecorded(t *models.Transaction) {
	b.publish(comm.SubjectTransaction, comm.TransactionEvent{
		Transaction: t,
		Timestamp:   time.Now().Unix(),
	})
}

// BillPaid announces a bill transition together with its paying transaction.
func (b *Broker) BillPaid(bill *models.Bill, t *models.Transaction) {
	b.publish(comm.SubjectBill, comm.BillEvent{
		BillID:      bill.ID,
		CustomerID:  bill.CustomerID,
		Status:      models.BillPaid,
		Transaction: t,
		Timestamp:   time.Now().Unix(),
	})
}
