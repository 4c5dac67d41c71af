package smsprovider

import "fmt"

// SendRequest тело запроса на отправку SMS.
type SendRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

// SendResponse ответ провайдера.
type SendResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// StatusError провайдер ответил неуспешным кодом.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}

// Permanent сообщает, что повтор запроса не поможет (ошибка клиента, кроме 429).
func (e *StatusError) Permanent() bool {
	return e.Code >= 400 && e.Code < 500 && e.Code != 429
}
