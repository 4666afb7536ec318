package metrics

import "time"

type MongoOperation string

const (
	MongoOpInsert   MongoOperation = "insert"
	MongoOpFind     MongoOperation = "find"
	MongoOpReplace  MongoOperation = "replace"
	MongoOpDelete   MongoOperation = "delete"
	MongoOpDistinct MongoOperation = "distinct"
)

type MongoTimer struct {
	service    string
	operation  MongoOperation
	collection string
	start      time.Time
}

func NewMongoTimer(service string, op MongoOperation, collection string) *MongoTimer {
	return &MongoTimer{
		service:    service,
		operation:  op,
		collection: collection,
		start:      time.Now(),
	}
}

func (mt *MongoTimer) ObserveDuration() {
	duration := time.Since(mt.start).Seconds()
	MongoOperationDuration.WithLabelValues(mt.service, string(mt.operation), mt.collection).Observe(duration)
}

func RecordMongoError(service string, op MongoOperation) {
	MongoErrors.WithLabelValues(service, string(op)).Inc()
}

func RecordCacheHit(service, keyPrefix string) {
	RedisCacheHits.WithLabelValues(service, keyPrefix).Inc()
}

func RecordCacheMiss(service, keyPrefix string) {
	RedisCacheMisses.WithLabelValues(service, keyPrefix).Inc()
}

func RecordRedisError(service, operation string) {
	RedisErrors.WithLabelValues(service, operation).Inc()
}

type KafkaProduceTimer struct {
	service string
	topic   string
	start   time.Time
}

func NewKafkaProduceTimer(service, topic string) *KafkaProduceTimer {
	return &KafkaProduceTimer{
		service: service,
		topic:   topic,
		start:   time.Now(),
	}
}

func (kt *KafkaProduceTimer) Success() {
	KafkaMessagesProduced.WithLabelValues(kt.service, kt.topic).Inc()
	KafkaProduceDuration.WithLabelValues(kt.service, kt.topic).Observe(time.Since(kt.start).Seconds())
}

func (kt *KafkaProduceTimer) Error() {
	KafkaErrors.WithLabelValues(kt.service, kt.topic, "produce").Inc()
}
