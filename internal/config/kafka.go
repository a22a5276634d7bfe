package config

// Kafka configures both the producer used by the relay and the consumer group
// of the event service.
type Kafka struct {
	Addresses []string `env:"KAFKA_ADDRESSES,required,notEmpty" envSeparator:","`
	Group     string   `env:"KAFKA_GROUP" envDefault:"product-inventory"`
	ClientID  string   `env:"KAFKA_CLIENT_ID" envDefault:"product-inventory"`
}
