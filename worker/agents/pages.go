package agents

import (
	"fmt"
	"time"
)

// essentialPages is the page set every new store starts with.
var essentialPages = []string{"about", "contact", "faq", "terms", "privacy"}

// pageContent generates the starter copy for a store page.
func pageContent(storeName, niche, pageType string) (title, content string) {
	if niche == "" {
		niche = "online store"
	}

	switch pageType {
	case "about":
		title = "About " + storeName
		content = fmt.Sprintf(`<h1>About %[1]s</h1>
<p>%[1]s is a premier %[2]s dedicated to providing high-quality products and exceptional customer service.</p>
<p>Founded with a passion for %[2]s, we strive to offer innovative and practical solutions for our customers.</p>
<p>Our mission is to deliver premium products that enhance your experience and lifestyle.</p>`, storeName, niche)

	case "contact":
		title = "Contact Us"
		content = fmt.Sprintf(`<h1>Contact %s</h1>
<p>We're here to help! Get in touch with our team for any questions, concerns, or feedback.</p>
<p>Email: contact@example.com</p>
<p>Phone: (555) 123-4567</p>
<p>Hours: Monday-Friday, 9am-5pm</p>`, storeName)

	case "faq":
		title = "Frequently Asked Questions"
		content = `<h1>Frequently Asked Questions</h1>
<h2>Shipping &amp; Delivery</h2>
<p><strong>Q: How long does shipping take?</strong></p>
<p>A: Standard shipping typically takes 5-7 business days. Express shipping options are available at checkout.</p>
<p><strong>Q: Do you ship internationally?</strong></p>
<p>A: Yes, we ship to most countries worldwide. Shipping costs and delivery times vary by location.</p>
<h2>Returns &amp; Exchanges</h2>
<p><strong>Q: What is your return policy?</strong></p>
<p>A: We offer a 30-day return policy for most items. Products must be in original condition with tags attached.</p>
<p><strong>Q: How do I initiate a return?</strong></p>
<p>A: Contact our customer service team to obtain a return authorization and shipping instructions.</p>`

	case "terms":
		title = "Terms & Conditions"
		content = fmt.Sprintf(`<h1>Terms &amp; Conditions</h1>
<p>Last updated: %[2]s</p>
<h2>1. Introduction</h2>
<p>Welcome to %[1]s. By accessing our website and making purchases, you agree to these Terms &amp; Conditions.</p>
<h2>2. Intellectual Property</h2>
<p>All content on this site, including images, text, and logos, is the property of %[1]s and protected by copyright laws.</p>
<h2>3. Product Information</h2>
<p>We strive to display products accurately, but cannot guarantee all details are 100%% accurate. We reserve the right to modify product information.</p>
<h2>4. Pricing and Payment</h2>
<p>All prices are subject to change without notice. We reserve the right to refuse any order placed with us.</p>`,
			storeName, time.Now().Format("January 2, 2006"))

	case "privacy":
		title = "Privacy Policy"
		content = fmt.Sprintf(`<h1>Privacy Policy</h1>
<p>Last updated: %s</p>
<h2>1. Information We Collect</h2>
<p>We collect personal information that you provide directly, such as name, email, shipping address, and payment details.</p>
<h2>2. How We Use Your Information</h2>
<p>We use your information to process orders, provide customer service, and improve our website and products.</p>
<h2>3. Information Sharing</h2>
<p>We do not sell or rent your personal information. We may share information with service providers who help us operate our business.</p>
<h2>4. Data Security</h2>
<p>We implement appropriate security measures to protect your personal information from unauthorized access or disclosure.</p>`,
			time.Now().Format("January 2, 2006"))

	default:
		title = titleCase(pageType) + " Page"
		content = fmt.Sprintf("<h1>%s</h1><p>Content for %s %s page.</p>", title, storeName, pageType)
	}

	return title, content
}
