package main

import (
    "context"
    "encoding/json"
    "log"
    "os"

    stan "github.com/nats-io/stan.go"

    "github.com/example/shop-order-service/internal/adapter/natsstan"
    "github.com/example/shop-order-service/internal/domain"
)

// Утилита отладки: читает конверт {"eventType": ..., "data": ...} со stdin
// и публикует его в шину с атрибутом eventType.
func main() {
    clusterID := getenv("STAN_CLUSTER_ID", "shop-cluster")
    clientID := getenv("STAN_PUB_ID", "shop-publisher")
    natsURL := getenv("NATS_URL", "nats://localhost:4223")
    subject := getenv("STAN_SUBJECT", "order-events")

    sc, err := stan.Connect(clusterID, clientID, stan.NatsURL(natsURL))
    if err != nil {
        log.Fatalf("stan connect: %v", err)
    }
    defer sc.Close()

    var env domain.Envelope
    dec := json.NewDecoder(os.Stdin)
    if err := dec.Decode(&env); err != nil {
        log.Fatalf("read envelope from stdin: %v", err)
    }

    pub := &natsstan.Publisher{Conn: sc, Subject: subject}
    attrs := map[string]string{domain.AttrEventType: string(env.EventType)}
    id, err := pub.Publish(context.Background(), env, attrs)
    if err != nil {
        log.Fatalf("publish: %v", err)
    }
    log.Printf("published %s as message %s to %s", env.EventType, id, subject)
}

func getenv(k, d string) string {
    if v := os.Getenv(k); v != "" { return v }
    return d
}
