package entity

// Contact, Clinic, Exam e Branding pertencem aos cadastros externos; o motor só lê.

type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Address devolve o destino do contato para o canal informado.
func (c *Contact) Address(ch Channel) string {
	if ch == ChannelEmail {
		return c.Email
	}
	return c.Phone
}

type Clinic struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type Exam struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Preparation string `json:"preparation"`
}

type Branding struct {
	CompanyName  string `json:"company_name"`
	LogoURL      string `json:"logo_url"`
	PrimaryColor string `json:"primary_color"`
}
