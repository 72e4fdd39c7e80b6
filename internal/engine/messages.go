package engine

import (
	"fmt"
	"strings"
)

// Reply texts, in the studio's voice. Kept together so copy changes never
// touch control flow.

const (
	msgWelcome = "✨ Olá! É um prazer receber você no Studio Olhar Sob Medida ✨\n\n" +
		"Sou a assistente virtual do estúdio 😊\n" +
		"Posso te ajudar com informações ou agendamentos.\n\n" +
		"👉 Você gostaria de conhecer nossos serviços?"

	msgHumanHandoff = "Entendi 😊\n" +
		"Vou te direcionar para atendimento humano agora.\n" +
		"⏳ Por favor, aguarde um momento que você será atendida.\n" +
		"Obrigada pela paciência 💖"

	msgWelcomeRetry = "Desculpe, não entendi 😊\n\n" +
		"Você gostaria de conhecer nossos serviços?\n" +
		"👉 Responda *sim* ou *não*, por favor!"

	msgWelcomeDeclined = "Entendi! Se quiser agendar algo depois, é só me chamar! 😊"

	msgEngagementDeclined = "Tudo bem 😊 Quando quiser conhecer ou agendar um serviço, é só me chamar. Estarei por aqui ✨"

	msgEngagementRetry = "Desculpe, não entendi 😕 Você gostaria de agendar um serviço? (responda *sim* ou *não*)"

	msgServiceRetry = "Não entendi qual serviço você quer 😕 Tente digitar o *número* ou o *nome*, como *1* ou *Sobrancelha*."

	msgDateRetry = "Não consegui entender a data 😕\n\n" +
		"Por favor, me diga a data que você prefere.\n" +
		"💡 Exemplos: *hoje*, *amanhã*, *20/01*, *dia 20*"

	msgTimeRetry = "Não consegui entender o horário 😕\n\n" +
		"Por favor, me diga o horário que você prefere.\n" +
		"💡 Exemplos: *15h*, *15:00*, *3 da tarde*"

	msgSlotsLookupFailed = "Desculpe, tive um problema ao verificar os horários disponíveis 😕\n\n" +
		"Por favor, tente novamente."

	msgNoSlotsLeft = "Poxa, não sobrou nenhum horário livre nessa data 😕\n\n" +
		"👉 Pode escolher outra data, por favor?"

	msgNameIsGreeting = "Opa! Isso é uma saudação 😊\n\n" +
		"Preciso do seu *nome completo* para finalizar o agendamento.\n\n" +
		"💡 Exemplo: *Maria Silva* ou *João Santos*\n\n" +
		"👉 Qual é o seu nome?"

	msgNameIncomplete = "Por favor, me informe seu *nome completo* (nome e sobrenome) 😊\n" +
		"💡 Exemplo: Maria Silva"

	msgConfirmRetry = "👉 Posso confirmar o agendamento? (responda *sim* ou *não*)"

	msgConfirmDeclined = "Tudo bem! 😊\n\n" +
		"Quando quiser agendar, é só me chamar!\n" +
		"Estamos ansiosos pelo seu retorno! ✨"

	msgCancelNothing = "Tudo bem! Se precisar de algo, é só chamar. 👋"

	msgFallbackReset = "Desculpa, não entendi 😊 Em que posso te ajudar?"

	msgFallbackMenu = "Desculpe, não entendi sua mensagem 😊\n\n" +
		"💡 Posso te ajudar com:\n" +
		"📍 Informações sobre o studio\n" +
		"📞 Nossos contatos\n" +
		"📱 Redes sociais\n" +
		"🔄 Cancelar ou reagendar\n\n" +
		"Como posso te ajudar?"

	msgGatewayApology = "Desculpe, tive um problema por aqui 😕\n\n" +
		"Pode tentar de novo em instantes, por favor?"

	addressBlock = "📍 *Endereço do Studio Olhar Sob Medida:*\n\n" +
		"Rua Horácio de Castilho, 21\n" +
		"Vila Maria Alta – São Paulo/SP\n\n" +
		"🕘 Funcionamos de terça a sábado, das 9h às 19h.\n"

	phoneBlock = "📞 *Nossos contatos:*\n\n" +
		"WhatsApp: (11) 9 1234-5678\n" +
		"Telefone fixo: (11) 1234-5678\n"

	instagramBlock = "📱 *Siga a gente no Instagram!*\n\n" +
		"🌟 @olharsobmedida\n" +
		"https://www.instagram.com/olharsobmedida\n\n" +
		"Lá você encontra:\n" +
		"✨ Nossos trabalhos\n" +
		"📸 Fotos antes e depois\n" +
		"🎁 Promoções exclusivas\n" +
		"💄 Dicas de beleza\n"
)

func msgCatalog(listing string) string {
	return "Confira nossos serviços:\n\n" + listing + "\n\n" +
		"👉 Digite o número ou nome do serviço que deseja agendar!\n\n" +
		"💡 Exemplo: *1* ou *sobrancelha*"
}

func msgEngagementAccepted(listing string) string {
	return "Perfeito! ✨ Vou te ajudar com o agendamento 💖\n\n" + msgCatalog(listing)
}

func msgServiceChosenOpenToday(service string) string {
	return fmt.Sprintf("Perfeito! ✨ *%s* é uma ótima escolha 💖\n\n", service) +
		"👉 Para qual data você gostaria de agendar?\n\n" +
		"Pode responder: *hoje*, *amanhã* ou uma data da sua preferência.\n\n" +
		"💡 Lembrando que o studio funciona de *Terça a Sábado* das *9h às 19h*"
}

func msgServiceChosenClosedToday(service, todayName, nextDay string) string {
	return fmt.Sprintf("Perfeito! ✨ *%s* é uma ótima escolha 💖\n\n", service) +
		fmt.Sprintf("⚠️ Hoje é *%s* e o studio está fechado.\n\n", todayName) +
		"👉 Para qual data você gostaria de agendar?\n\n" +
		fmt.Sprintf("Pode responder: *amanhã (%s)* ou uma data da sua preferência.\n\n", nextDay) +
		"💡 Funcionamos de *Terça a Sábado* das *9h às 19h*"
}

func msgClosedDay(dayName, dateDisplay, nextDay string) string {
	return fmt.Sprintf("⚠️ %s (%s) o studio está fechado.\n\n", dayName, dateDisplay) +
		"🕒 Funcionamos de *Terça a Sábado* das *9h às 19h*\n\n" +
		fmt.Sprintf("👉 Que tal agendar para *%s* ou outra data da sua preferência?", nextDay)
}

func msgDateUnavailable(dateDisplay string) string {
	return fmt.Sprintf("Essa data (*%s*) não está disponível ou não temos agenda aberta 😕\n\n", dateDisplay) +
		"👉 Pode escolher outra data, por favor?"
}

func msgDateChosen(dateDisplay string) string {
	return fmt.Sprintf("Perfeito! ✨ Data escolhida: *%s*\n\n", dateDisplay) +
		"👉 Qual horário você prefere?\n" +
		"💡 Funcionamos das *9h às 19h*"
}

func msgSlotsLookupFailedDate(dateDisplay string) string {
	return fmt.Sprintf("Desculpe, tive um problema ao verificar os horários disponíveis para *%s* 😕\n\n", dateDisplay) +
		"Por favor, tente novamente ou escolha apenas a data primeiro."
}

func msgTimeTakenWithDate(dateDisplay, clock string, available []string) string {
	return fmt.Sprintf("Consegui a data *%s*, mas o horário *%s* já está ocupado 😕\n\n", dateDisplay, clock) +
		fmt.Sprintf("📋 Horários disponíveis: %s\n\n", strings.Join(available, ", ")) +
		"👉 Qual horário você prefere?"
}

func msgTimeTaken(clock string, available []string) string {
	return fmt.Sprintf("Esse horário (*%s*) não está disponível 😕\n\n", clock) +
		fmt.Sprintf("📋 Horários disponíveis: %s\n\n", strings.Join(available, ", ")) +
		"👉 Qual horário você prefere?"
}

func msgAskName(dateDisplay, clock string) string {
	return "Perfeito! ✨\n" +
		fmt.Sprintf("📅 Data: *%s*\n", dateDisplay) +
		fmt.Sprintf("⏰ Horário: *%s*\n\n", clock) +
		"👉 Para finalizar, qual é o seu *nome completo*?\n" +
		"(Nome e sobrenome, por favor)"
}

func msgBookingSummary(name, service, dateDisplay, clock string) string {
	return fmt.Sprintf("Prazer, *%s*! 😊\n\n", name) +
		"📝 Resumo do agendamento:\n" +
		fmt.Sprintf("👤 Nome: *%s*\n", name) +
		fmt.Sprintf("✨ Serviço: *%s*\n", service) +
		fmt.Sprintf("📅 Data: *%s*\n", dateDisplay) +
		fmt.Sprintf("⏰ Horário: *%s*\n\n", clock) +
		"👉 Posso confirmar o agendamento?"
}

func msgConfirmIsGreeting(name, service, dateDisplay, clock string) string {
	return "Entendi a saudação! 😊\n\n" +
		"Mas preciso saber: você quer confirmar este agendamento?\n\n" +
		"📝 Resumo:\n" +
		fmt.Sprintf("👤 Nome: *%s*\n", name) +
		fmt.Sprintf("✨ Serviço: *%s*\n", service) +
		fmt.Sprintf("📅 Data: *%s*\n", dateDisplay) +
		fmt.Sprintf("⏰ Horário: *%s*\n\n", clock) +
		"👉 Responda *sim* para confirmar ou *não* para cancelar"
}

func msgBookingConfirmed(name, dateDisplay, clock string) string {
	return fmt.Sprintf("Agendamento confirmado com sucesso, *%s*! 🎉✨\n\n", name) +
		"Estamos te esperando no *Studio Olhar Sob Medida* 💖\n\n" +
		"📍 Rua Horácio de Castilho, 21 - Vila Maria Alta\n" +
		fmt.Sprintf("📅 %s às %s\n\n", dateDisplay, clock) +
		"Vai ficar lindo! Será um prazer te receber ✨\n\n" +
		"👉 Posso te ajudar com mais alguma coisa? 😊"
}

func msgBookingConflict(clock string, available []string) string {
	out := fmt.Sprintf("Poxa, o horário *%s* acabou de ser reservado 😕\n\n", clock)
	if len(available) > 0 {
		out += fmt.Sprintf("📋 Horários ainda disponíveis: %s\n\n", strings.Join(available, ", "))
	}
	return out + "👉 Qual horário você prefere?"
}

func msgBookingNotFound(dateDisplay string) string {
	return fmt.Sprintf("Não encontrei mais agenda aberta para *%s* 😕\n\n", dateDisplay) +
		"👉 Pode escolher outra data, por favor?"
}

func msgCancelConfirmed(b BookingSnapshot) string {
	return fmt.Sprintf("✅ Agendamento cancelado com sucesso, *%s*!\n\n", b.Name) +
		"📋 Detalhes do cancelamento:\n" +
		fmt.Sprintf("✨ Serviço: %s\n", b.Service) +
		fmt.Sprintf("📅 Data: %s\n", b.Date) +
		fmt.Sprintf("⏰ Horário: %s\n\n", b.Time) +
		"💡 *Gostaria de:*\n" +
		"📅 Reagendar para outro dia ou horário?\n" +
		"✨ Agendar outro serviço?\n" +
		"📍 Ver nossos serviços disponíveis?\n\n" +
		"É só me dizer! Estou aqui para ajudar 💖"
}

func msgCancelFailed(name string) string {
	return fmt.Sprintf("Entendi, *%s*! 😊\n\n", name) +
		"⚠️ *IMPORTANTE:* Entre em contato conosco para confirmar o cancelamento!\n\n" +
		"📞 WhatsApp: (11) 9 1234-5678\n\n" +
		"Se quiser reagendar depois, é só me chamar! 💖"
}

func msgCancelInProgress(service, dateDisplay, clock string) string {
	var b strings.Builder
	b.WriteString("Tudo bem! Agendamento cancelado. 😊\n\n")
	if service != "" || dateDisplay != "" || clock != "" {
		b.WriteString("📋 Você estava agendando:\n")
		if service != "" {
			fmt.Fprintf(&b, "✨ Serviço: %s\n", service)
		}
		if dateDisplay != "" {
			fmt.Fprintf(&b, "📅 Data: %s\n", dateDisplay)
		}
		if clock != "" {
			fmt.Fprintf(&b, "⏰ Horário: %s\n", clock)
		}
		b.WriteString("\n")
	}
	b.WriteString("💡 *Gostaria de:*\n")
	b.WriteString("📅 Reagendar para outro dia ou horário?\n")
	b.WriteString("✨ Conhecer outros serviços?\n")
	b.WriteString("📍 Saber mais sobre o studio?\n\n")
	b.WriteString("É só me dizer! Estou aqui para ajudar 💖")
	return b.String()
}

func msgFarewell(name string) string {
	if name != "" {
		return fmt.Sprintf("Até logo, *%s*! 💖 Foi um prazer te atender! 👋", name)
	}
	return "Até logo! 💖 Foi um prazer te atender! 👋"
}

func msgPostBookingFarewell(b *BookingSnapshot) string {
	if b != nil && b.Name != "" && b.Date != "" && b.Time != "" {
		return fmt.Sprintf("Perfeito, *%s*! 💖\n\n", b.Name) +
			"Foi um prazer te atender!\n" +
			fmt.Sprintf("Nos vemos em *%s* às *%s* ✨\n\n", b.Date, b.Time) +
			"Até lá! 👋"
	}
	return "Perfeito! 💖\n\n" +
		"Foi um prazer te atender!\n" +
		"Até breve! 👋"
}

func msgTopic(topic string, booking *BookingSnapshot, atWelcome bool) string {
	var block, engage string
	switch topic {
	case TopicAddress:
		block = addressBlock
		engage = "Se quiser, posso te mostrar nossos serviços 😊"
	case TopicPhone:
		block = phoneBlock
		engage = "👉 Posso te ajudar com algum agendamento? 😊"
	case TopicInstagram:
		block = instagramBlock
		engage = "👉 Viu algum serviço que te interessou? Posso agendar para você! 💖"
	}

	if booking != nil {
		return block + "\n" + fmt.Sprintf("✨ Nos vemos em *%s* às *%s*! 💖", booking.Date, booking.Time)
	}
	if atWelcome {
		switch topic {
		case TopicPhone:
			return block + "\nQualquer dúvida, estou aqui! 😊"
		case TopicInstagram:
			return block + "\nVem conferir! 😊💖"
		default:
			return block + "\nSe quiser, posso te mostrar nossos serviços 😊"
		}
	}
	return block + "\n" + engage
}
