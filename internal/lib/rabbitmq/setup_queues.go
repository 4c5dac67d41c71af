package rabbitmq

// QueueConfig очередь и ключ маршрутизации, которым она привязана к Exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// SMSQueue очередь исходящих SMS.
var SMSQueue = QueueConfig{QueueName: "notifications.sms", RoutingKey: "sms"}

// GetNotificationQueues очереди, которые нужны магазину и воркеру рассылки.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{SMSQueue}
}
