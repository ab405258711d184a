package broker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/avvvet/chip-services/internal/chipsvc/ledger"
	"github.com/avvvet/chip-services/internal/chipsvc/service"
	"github.com/avvvet/chip-services/internal/comm"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

type Broker struct {
	Conn          *nats.Conn
	PlayerService *service.PlayerService
	StatsService  *service.StatsService
	timeout       time.Duration
}

func NewBroker(nc *nats.Conn, playerService *service.PlayerService, statsService *service.StatsService, timeout time.Duration) *Broker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Broker{
		Conn:          nc,
		PlayerService: playerService,
		StatsService:  statsService,
		timeout:       timeout,
	}
}

// Subscribe serves requests published on subject.
func (b *Broker) Subscribe(subject string) (*nats.Subscription, error) {
	return b.Conn.Subscribe(subject, b.handleMessage)
}

func (b *Broker) handleMessage(msgNat *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	reply := b.dispatch(ctx, msgNat.Data)

	if msgNat.Reply == "" {
		return
	}
	payload, err := json.Marshal(reply)
	if err != nil {
		log.Errorf("unable to marshal reply for %s: %s", reply.Type, err)
		return
	}
	if err := msgNat.Respond(payload); err != nil {
		log.Errorf("unable to respond to %s: %s", reply.Type, err)
	}
}

// dispatch decodes one request and runs it.
func (b *Broker) dispatch(ctx context.Context, data []byte) comm.Reply {
	msg := comm.Message{}
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Errorf("Error nats message %s", err)
		return comm.Reply{Code: http.StatusBadRequest, Message: "Invalid message", Error: err.Error()}
	}

	reply := comm.Reply{Type: msg.Type + "-response", RequestID: msg.RequestID}

	switch msg.Type {
	case comm.TypeGetSessionStats:
		var request comm.SessionStatsRequest
		if err := json.Unmarshal(msg.Data, &request); err != nil {
			return badRequest(reply, err)
		}

		stats, err := b.StatsService.GetSessionStats(ctx, request.SessionID)
		if err != nil {
			return failed(reply, err, "Failed to load statistics")
		}

		rows := make([]comm.StatsRow, 0, len(stats))
		for _, s := range stats {
			rows = append(rows, comm.StatsRow{
				PlayerID:  s.PlayerID,
				Name:      s.Name,
				ChipValue: ledger.FormatAmount(s.ChipValue),
				BuyIn:     ledger.FormatAmount(s.BuyIn),
				NetProfit: ledger.FormatAmount(s.NetProfit),
			})
		}
		reply.Code = http.StatusOK
		reply.Data = rows
	case comm.TypeUpdateBuyIn:
		var request comm.BuyInUpdate
		if err := json.Unmarshal(msg.Data, &request); err != nil {
			return badRequest(reply, err)
		}

		p, err := b.PlayerService.UpdateBuyIn(ctx, request.PlayerID, request.BuyIn)
		if err != nil {
			return failed(reply, err, service.MsgSaveFailed)
		}
		reply.Code = http.StatusOK
		reply.Message = "Buy-in updated"
		reply.Data = comm.StatsRow{PlayerID: p.ID, Name: p.Name, BuyIn: ledger.FormatAmount(p.BuyIn)}
	case comm.TypeSaveChipCounts:
		var request comm.ChipCountsUpdate
		if err := json.Unmarshal(msg.Data, &request); err != nil {
			return badRequest(reply, err)
		}

		saved, err := b.PlayerService.ReplaceChipCounts(ctx, request.PlayerID, request.Counts)
		if err != nil {
			return failed(reply, err, service.MsgSaveFailed)
		}
		reply.Code = http.StatusOK
		reply.Message = service.MsgSaved
		reply.Data = saved
	default:
		log.Errorf("Unknown message %q", msg.Type)
		reply.Code = http.StatusBadRequest
		reply.Message = "Unknown message type"
		reply.Error = msg.Type
	}

	return reply
}

func badRequest(reply comm.Reply, err error) comm.Reply {
	log.Errorf("Error decoding %s: %s", reply.Type, err)
	reply.Code = http.StatusBadRequest
	reply.Message = "Invalid request"
	reply.Error = err.Error()
	return reply
}

func failed(reply comm.Reply, err error, storeMessage string) comm.Reply {
	reply.Error = err.Error()
	if v, ok := service.IsValidation(err); ok {
		reply.Code = http.StatusBadRequest
		reply.Message = v.Message
		return reply
	}
	if errors.Is(err, service.ErrNotFound) {
		reply.Code = http.StatusNotFound
		reply.Message = err.Error()
		return reply
	}
	reply.Code = http.StatusInternalServerError
	reply.Message = storeMessage
	return reply
}
